package rule

import (
	"github.com/go-playground/validator/v10"
)

// 任务领域的合法取值，供请求绑定校验使用.
var (
	taskStatuses = map[string]struct{}{
		"todo": {}, "in_progress": {}, "review": {}, "done": {}, "blocked": {},
	}
	taskTypes = map[string]struct{}{
		"development": {}, "research": {}, "gis": {}, "marketing": {},
	}
	taskPriorities = map[string]struct{}{
		"low": {}, "medium": {}, "high": {}, "urgent": {},
	}
)

// RegisterTaskRules 注册任务领域的自定义校验规则.
// 规则 tag: task_status / task_type / task_priority.
func RegisterTaskRules() error {
	if err := RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		_, ok := taskStatuses[fl.Field().String()]
		return ok
	}); err != nil {
		return err
	}

	if err := RegisterValidation("task_type", func(fl validator.FieldLevel) bool {
		_, ok := taskTypes[fl.Field().String()]
		return ok
	}); err != nil {
		return err
	}

	return RegisterValidation("task_priority", func(fl validator.FieldLevel) bool {
		_, ok := taskPriorities[fl.Field().String()]
		return ok
	})
}
