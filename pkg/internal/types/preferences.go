package types

// SetPreferenceRequest 写入用户偏好请求.
type SetPreferenceRequest struct {
	Value string `binding:"required,max=4096" json:"value"`
}

// PreferenceInfo 用户偏好项.
type PreferenceInfo struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
