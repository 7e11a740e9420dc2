package snowflake

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

func GenID() int64 {
	return node.Generate().Int64()
}

// GenOrderSn 订单号：前缀 + 秒级时间戳 + 雪花 ID 的 base36，全局唯一
func GenOrderSn(prefix string) string {
	return prefix + time.Now().Format("060102150405") + strings.ToUpper(node.Generate().Base36())
}
