package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
)

type housingRequest struct {
	Rooms *int `json:"rooms" binding:"required,min=1,max=1000"`
}

func (s *Server) CreateHousing(c *gin.Context) {
	var req housingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.housing.Create(c.Request.Context(), housingdomain.CreateRequest{
		Rooms: *req.Rooms,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, success(msgCreated, resp))
}

func (s *Server) ListHousing(c *gin.Context) {
	resp, err := s.housing.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(msgList, resp))
}

func (s *Server) GetHousing(c *gin.Context) {
	resp, err := s.housing.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(msgFound, resp))
}

func (s *Server) UpdateHousing(c *gin.Context) {
	id := c.Param("id")
	if _, err := housingdomain.ParseID(id); err != nil {
		AbortWithError(c, err)
		return
	}

	var req housingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.housing.Update(c.Request.Context(), housingdomain.UpdateRequest{
		ID:    id,
		Rooms: *req.Rooms,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(msgUpdated, resp))
}

func (s *Server) DeleteHousing(c *gin.Context) {
	if err := s.housing.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(msgDeleted, nil))
}
