package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/taskvault/pkg/rule"
)

// TestStruct 用于测试 ValidateStruct.
type TestStruct struct {
	Title    string `rule:"required"`
	Priority int    `rule:"gte=1"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	validStruct := TestStruct{Title: "编写接口文档", Priority: 2}

	err := rule.ValidateStruct(validStruct)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 缺少 Title
	invalidStruct1 := TestStruct{Title: "", Priority: 2}

	err = rule.ValidateStruct(invalidStruct1)
	if err == nil {
		t.Error("Expected error for invalid struct (missing title), got nil")
	}

	// Priority 小于 1
	invalidStruct2 := TestStruct{Title: "编写接口文档", Priority: 0}

	err = rule.ValidateStruct(invalidStruct2)
	if err == nil {
		t.Error("Expected error for invalid struct (priority < 1), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	err := rule.ValidateVar("test@example.com", "required,email")
	if err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	err = rule.ValidateVar("invalid-email", "required,email")
	if err == nil {
		t.Error("Expected error for invalid email, got nil")
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("even_length", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(str)%2 == 0
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	err = rule.ValidateVar("test", "even_length")
	if err != nil {
		t.Errorf("Expected no error for even length string, got %v", err)
	}

	err = rule.ValidateVar("test1", "even_length")
	if err == nil {
		t.Error("Expected error for odd length string, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("min_required", "required,min=3")

	err := rule.ValidateVar("abc", "min_required")
	if err != nil {
		t.Errorf("Expected no error for valid string with alias, got %v", err)
	}

	err = rule.ValidateVar("ab", "min_required")
	if err == nil {
		t.Error("Expected error for invalid string with alias, got nil")
	}
}

// TestRegisterTaskRules 测试任务领域校验规则.
func TestRegisterTaskRules(t *testing.T) {
	if err := rule.RegisterTaskRules(); err != nil {
		t.Fatalf("Failed to register task rules: %v", err)
	}

	cases := []struct {
		value   string
		tag     string
		wantErr bool
	}{
		{"todo", "task_status", false},
		{"in_progress", "task_status", false},
		{"cancelled", "task_status", true},
		{"development", "task_type", false},
		{"gis", "task_type", false},
		{"devops", "task_type", true},
		{"urgent", "task_priority", false},
		{"critical", "task_priority", true},
	}

	for _, tc := range cases {
		err := rule.ValidateVar(tc.value, tc.tag)
		if tc.wantErr && err == nil {
			t.Errorf("Expected error for %q with tag %q, got nil", tc.value, tc.tag)
		}

		if !tc.wantErr && err != nil {
			t.Errorf("Expected no error for %q with tag %q, got %v", tc.value, tc.tag, err)
		}
	}
}
