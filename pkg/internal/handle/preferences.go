package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/taskvault/pkg/internal/types"
	"github.com/yeisme/taskvault/pkg/middleware"
)

// GetPreference 读取当前用户的界面偏好项.
//
//	@Summary		读取偏好
//	@Description	键值存于内存状态镜像并随快照持久化，例如看板列折叠、日历默认视图
//	@Tags			偏好
//	@Produce		json
//	@Param			key	path		string	true	"偏好键"
//	@Success		200	{object}	types.PreferenceInfo
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/preferences/{key} [get]
func GetPreference(c *gin.Context) {
	key := c.Param("key")

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	st := middleware.GetState(c)
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state cache not initialized"})
		return
	}

	value, ok := st.GetPreference(user, key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not set"})
		return
	}

	c.JSON(http.StatusOK, types.PreferenceInfo{Key: key, Value: value})
}

// SetPreference 写入当前用户的界面偏好项.
//
//	@Summary		写入偏好
//	@Tags			偏好
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string						true	"偏好键"
//	@Param			body	body		types.SetPreferenceRequest	true	"偏好值"
//	@Success		200		{object}	types.PreferenceInfo
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/preferences/{key} [put]
func SetPreference(c *gin.Context) {
	key := c.Param("key")

	var req types.SetPreferenceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := checkUser(c)
	if user == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	st := middleware.GetState(c)
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state cache not initialized"})
		return
	}

	if err := st.SetPreference(c.Request.Context(), user, key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.PreferenceInfo{Key: key, Value: req.Value})
}
