package bridge

import (
	"fmt"
	"strings"
)

// Pair 命令文件中的一个 key=value 条目
type Pair struct {
	Key   string
	Value string
}

// EncodeKV 按调用方给定的顺序编码为 key=value 行文本
// 值中不做任何转义, 约定值里不出现 '=' 和换行
func EncodeKV(pairs []Pair) string {
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(fmt.Sprintf("%s=%s\n", p.Key, p.Value))
	}
	return sb.String()
}

// DecodeKV 解析 key=value 行文本, 按第一个 '=' 切分
// 空行和没有 '=' 的行直接跳过
func DecodeKV(text string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}
