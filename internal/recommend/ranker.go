// Package recommend 推荐列表的纯排序/分页逻辑，不访问存储
package recommend

// Pools 三个已按 (likeCount desc, viewCount desc, publishedAt desc, id asc) 排好序的候选 ID 列表
//
// Affinity 与 Popular 已排除用户点赞过的日记；Filler 是用户点赞过的日记，
// 只在前两者不足以填满当前页时兜底。
type Pools struct {
	Affinity []string
	Popular  []string
	Filler   []string
}

// Page 某一页的推荐结果
type Page struct {
	IDs   []string
	Total int64
}

// BuildPage 拼接 affinity ++ popular（去重）为主列表，按页切片，不足时从 filler 顺延补齐
//
// filler 视为主列表之后的延续：第 p 页从 filler 的 max(0, (p-1)*s - len(primary)) 处开始取，
// 因此逐页请求时各页互不重复，且单页不会超过 size。
func BuildPage(pools Pools, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return Page{IDs: []string{}}
	}

	seen := make(map[string]struct{}, len(pools.Affinity)+len(pools.Popular)+len(pools.Filler))
	primary := make([]string, 0, len(pools.Affinity)+len(pools.Popular))
	for _, list := range [][]string{pools.Affinity, pools.Popular} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			primary = append(primary, id)
		}
	}

	filler := make([]string, 0, len(pools.Filler))
	for _, id := range pools.Filler {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		filler = append(filler, id)
	}

	offset := (page - 1) * size
	ids := make([]string, 0, size)
	if offset < len(primary) {
		end := offset + size
		if end > len(primary) {
			end = len(primary)
		}
		ids = append(ids, primary[offset:end]...)
	}

	if missing := size - len(ids); missing > 0 && len(filler) > 0 {
		fillerOffset := offset - len(primary)
		if fillerOffset < 0 {
			fillerOffset = 0
		}
		if fillerOffset < len(filler) {
			end := fillerOffset + missing
			if end > len(filler) {
				end = len(filler)
			}
			ids = append(ids, filler[fillerOffset:end]...)
		}
	}

	return Page{IDs: ids, Total: int64(len(seen))}
}

// Reorder 按 ids 的顺序重排取回的记录；取回时已消失的 ID 被跳过
func Reorder[T any](ids []string, records []T, idOf func(T) string) []T {
	byID := make(map[string]T, len(records))
	for _, r := range records {
		byID[idOf(r)] = r
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
