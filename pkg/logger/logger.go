package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志实例；未初始化时为 Nop，测试中无需额外设置
var Logger = zap.NewNop()

// level 运行期可调的日志级别
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init 按配置构建全局 Logger。output: stdout / file / both
func Init(lvl, format, output, filePath string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}

	sinks, err := openSinks(output, filePath)
	if err != nil {
		return err
	}
	encoder := newEncoder(format)

	cores := make([]zapcore.Core, 0, len(sinks))
	for _, s := range sinks {
		cores = append(cores, zapcore.NewCore(encoder, s, level))
	}
	Logger = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	)
	return nil
}

// SetLevel 空串视为 info
func SetLevel(lvl string) error {
	if lvl == "" {
		lvl = "info"
	}
	parsed, err := zapcore.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return fmt.Errorf("log level %q: %w", lvl, err)
	}
	level.SetLevel(parsed)
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func openSinks(output, filePath string) ([]zapcore.WriteSyncer, error) {
	stdout := zapcore.Lock(os.Stdout)
	switch output {
	case "file", "both":
		if filePath == "" {
			return nil, fmt.Errorf("log output %q requires file_path", output)
		}
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		if output == "file" {
			return []zapcore.WriteSyncer{zapcore.AddSync(f)}, nil
		}
		return []zapcore.WriteSyncer{stdout, zapcore.AddSync(f)}, nil
	default:
		return []zapcore.WriteSyncer{stdout}, nil
	}
}

func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// Fatal 记录后退出进程
func Fatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }

// Named 组件子 Logger，去掉包级函数多加的一层 caller skip
func Named(component string) *zap.Logger {
	return Logger.WithOptions(zap.AddCallerSkip(-1)).Named(component)
}

func DiaryID(id string) zap.Field { return zap.String("diary_id", id) }

func UserID(id int64) zap.Field { return zap.Int64("user_id", id) }

// Op 事务或账本动作名
func Op(name string) zap.Field { return zap.String("op", name) }
