package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/game"
)

// ListCourses returns the stored courses. The built-in flat range is always
// listed with id 0.
// GET /api/v1/courses
func ListCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := game.Manager.ListCourses(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		list := []gin.H{{"id": 0, "name": "Flat Range"}}
		for _, course := range courses {
			list = append(list, gin.H{"id": course.ID, "name": course.Name, "updated_at": course.UpdatedAt})
		}
		c.JSON(http.StatusOK, gin.H{"courses": list})
	}
}
