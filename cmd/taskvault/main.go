// Package main 启动应用程序
package main

import "github.com/yeisme/taskvault/pkg/cmd"

//	@title			TaskVault API
//	@version		1.0
//	@description	TaskVault 是一个项目与任务管理服务，提供任务工作流、看板排序、评论提及、站内通知和带版本历史的任务附件等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
