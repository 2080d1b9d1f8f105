package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) CreateFriendship(c *gin.Context) {
	err := s.friendshipSvc.Create(c.Request.Context(), c.Param("myBadgeCode"), c.Param("friendBadgeCode"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "friendship created"}})
}

func (s *Server) RemoveFriendship(c *gin.Context) {
	err := s.friendshipSvc.Remove(c.Request.Context(), c.Param("myBadgeCode"), c.Param("friendBadgeCode"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "friendship removed"}})
}

func (s *Server) ListFriends(c *gin.Context) {
	friends, err := s.friendshipSvc.ListFriends(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": friends})
}
