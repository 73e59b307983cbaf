// Package openapi 由 swag init 生成，注册 Swagger 文档
package openapi

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@trailnote.dev"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/diaries/feed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["日记"],
                "summary": "推荐流",
                "parameters": [
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "description": "每页数量", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/diaries": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["日记"],
                "summary": "创建日记",
                "responses": {"200": {"description": "OK"}, "400": {"description": "参数错误"}}
            }
        },
        "/diaries/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["日记"],
                "summary": "日记详情",
                "parameters": [{"type": "string", "description": "日记ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "日记不存在"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["日记"],
                "summary": "提交修改（生成待审核副本）",
                "parameters": [{"type": "string", "description": "日记ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "无权限"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["日记"],
                "summary": "删除日记",
                "parameters": [{"type": "string", "description": "日记ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/review/diaries/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["审核"],
                "summary": "审核日记",
                "parameters": [{"type": "string", "description": "日记ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "无权限"}}
            }
        },
        "/search/diaries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["搜索"],
                "summary": "搜索日记",
                "parameters": [
                    {"type": "string", "description": "关键词", "name": "q", "in": "query"},
                    {"type": "string", "description": "标签", "name": "tag", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["用户"],
                "summary": "获取用户信息",
                "parameters": [{"type": "integer", "description": "用户ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "用户不存在"}}
            }
        },
        "/users/{id}/follow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["关注"],
                "summary": "关注用户",
                "parameters": [{"type": "integer", "description": "被关注用户ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "不能关注自己"}, "409": {"description": "已关注"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["关注"],
                "summary": "取消关注",
                "parameters": [{"type": "integer", "description": "被取消关注用户ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "未关注该用户"}}
            }
        },
        "/users/{id}/followers": {
            "get": {
                "tags": ["关注"],
                "summary": "获取用户粉丝列表",
                "parameters": [{"type": "integer", "description": "用户ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "输入格式: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "127.0.0.1:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Trailnote API",
	Description:      "旅行日记平台 API 服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
