package controller

import (
	"errors"

	"courseset_backend/internal/service"
	"courseset_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	EditService  *service.AssignmentEditService
	AdminService *service.AssignmentAdminService
}

func NewAssignmentController(edit *service.AssignmentEditService, admin *service.AssignmentAdminService) *AssignmentController {
	return &AssignmentController{EditService: edit, AdminService: admin}
}

// List godoc
// @Summary List assignment sets
// @Tags sets
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Assignment} "Success"
// @Router /api/sets [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	sets, err := c.AdminService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sets)
}

// Create godoc
// @Summary Create an assignment set
// @Tags sets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateRequest true "Set details"
// @Success 201 {object} util.Response{data=model.Assignment} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/sets [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	var req service.CreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	set, err := c.AdminService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, set)
}

// Delete godoc
// @Summary Delete an assignment set and all its records
// @Tags sets
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	if err := c.AdminService.Delete(ctx.Request.Context(), setID); err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": setID})
}

// Detail godoc
// @Summary Resolved edit view of a set
// @Description Returns every visible field with its effective value, either
// @Description for the global records or through one user's overrides.
// @Tags sets
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param userId query int false "User whose overrides to resolve"
// @Param version query int false "Attempt version"
// @Success 200 {object} util.Response{data=service.DetailView} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId} [get]
func (c *AssignmentController) Detail(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	userID, ok := queryUint(ctx, "userId")
	if !ok {
		return
	}
	version, ok := queryInt(ctx, "version")
	if !ok {
		return
	}

	view, err := c.EditService.Detail(ctx.Request.Context(), setID, userID, version)
	if err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// Save godoc
// @Summary Apply an edit batch to a set
// @Description Resolves every submitted field under its override policy and
// @Description commits the batch, or rejects it whole on date violations.
// @Tags sets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param body body service.SaveRequest true "Edit batch"
// @Success 200 {object} util.Response{data=service.SaveResult} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId} [put]
func (c *AssignmentController) Save(ctx *gin.Context) {
	var req service.SaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	req.SetID = setID

	result, err := c.EditService.Save(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUserNotAssigned):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

type assignUsersRequest struct {
	UserIDs []uint `json:"userIds" binding:"required"`
}

// AssignUsers godoc
// @Summary Assign a set to users
// @Tags sets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param body body assignUsersRequest true "User IDs"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/users [post]
func (c *AssignmentController) AssignUsers(ctx *gin.Context) {
	var req assignUsersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}

	if err := c.AdminService.AssignUsers(ctx.Request.Context(), setID, req.UserIDs); err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"assigned": len(req.UserIDs)})
}

// UnassignUser godoc
// @Summary Remove a user's records for a set
// @Tags sets
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/sets/{setId}/users/{userId} [delete]
func (c *AssignmentController) UnassignUser(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	userID, ok := pathUint(ctx, "userId")
	if !ok {
		return
	}

	if err := c.AdminService.UnassignUser(ctx.Request.Context(), setID, userID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unassigned": userID})
}
