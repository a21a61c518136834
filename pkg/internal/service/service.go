// Package service 实现业务逻辑层：项目、任务、评论、附件版本、通知与派生视图.
package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/taskvault/pkg/context"
)

// deps 各业务服务共享的存储依赖，从请求上下文解析.
type deps struct {
	db  *gorm.DB
	pub message.Publisher
}

func depsFromContext(c context.Context) deps {
	d := deps{}

	if dbc := ctxPkg.GetDBClient(c); dbc != nil {
		d.db = dbc.DB
	}

	if mqc := ctxPkg.GetMQClient(c); mqc != nil {
		d.pub = mqc.Publisher()
	}

	return d
}
