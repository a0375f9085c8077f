package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":   "HOUSING API VERSION 1.0",
		"message": "Welcome to the housing price API.",
	})
}
