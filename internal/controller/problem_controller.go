package controller

import (
	"errors"
	"fmt"
	"io"

	"courseset_backend/internal/service"
	"courseset_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	EditService    *service.AssignmentEditService
	AdminService   *service.AssignmentAdminService
	ReorderService *service.ReorderService
	Storage        *service.StorageService
}

func NewProblemController(edit *service.AssignmentEditService, admin *service.AssignmentAdminService, reorder *service.ReorderService, storage *service.StorageService) *ProblemController {
	return &ProblemController{
		EditService:    edit,
		AdminService:   admin,
		ReorderService: reorder,
		Storage:        storage,
	}
}

type addProblemsRequest struct {
	Sources []string `json:"sources" binding:"required"`
}

// Add godoc
// @Summary Append problems to a set
// @Tags problems
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param body body addProblemsRequest true "Source file paths"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/problems [post]
func (c *ProblemController) Add(ctx *gin.Context) {
	var req addProblemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}

	ids, err := c.AdminService.AddProblems(ctx.Request.Context(), setID, req.Sources)
	if err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"problemIds": ids})
}

type problemPosition struct {
	Position int   `json:"position" binding:"required,min=1"`
	Parent   int64 `json:"parent"`
}

type reorderRequest struct {
	Version   int                        `json:"version"`
	Positions map[string]problemPosition `json:"positions" binding:"required"`
}

// Reorder godoc
// @Summary Reorder problems by position and parent
// @Description Each entry gives a problem's new position among its
// @Description siblings plus, for nested sets, the pre-reorder identifier
// @Description of its parent (0 for top level). The whole batch commits
// @Description together, including per-user records.
// @Tags problems
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param body body reorderRequest true "Positions and parent references"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/sets/{setId}/problems/reorder [post]
func (c *ProblemController) Reorder(ctx *gin.Context) {
	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}

	moves := make(map[int64]service.PositionRef, len(req.Positions))
	for k, v := range req.Positions {
		old, err := util.ParseInt64(k)
		if err != nil || old <= 0 {
			util.BadRequest(ctx, fmt.Sprintf("bad problem identifier %q", k))
			return
		}
		moves[old] = service.PositionRef{Position: v.Position, Parent: v.Parent}
	}

	err := c.ReorderService.ApplyPositions(ctx.Request.Context(), setID, req.Version, moves)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidReorder):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"reordered": len(moves)})
}

// Renumber godoc
// @Summary Renumber problems into consecutive order
// @Tags problems
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param version query int false "Attempt version"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/problems/renumber [post]
func (c *ProblemController) Renumber(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	version, ok := queryInt(ctx, "version")
	if !ok {
		return
	}

	if err := c.ReorderService.MakeConsecutive(ctx.Request.Context(), setID, version); err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"renumbered": true})
}

type deleteProblemsRequest struct {
	ProblemIDs []int64 `json:"problemIds" binding:"required"`
}

// Delete godoc
// @Summary Delete problems from a set
// @Description Deletes the named problems; in nested sets descendants are
// @Description removed with their ancestors.
// @Tags problems
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param body body deleteProblemsRequest true "Problem identifiers"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/problems [delete]
func (c *ProblemController) Delete(ctx *gin.Context) {
	var req deleteProblemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}

	if err := c.ReorderService.DeleteProblems(ctx.Request.Context(), setID, req.ProblemIDs); err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": len(req.ProblemIDs)})
}

// UploadSource godoc
// @Summary Upload a problem's source file
// @Description Stores the uploaded file and points the problem at it.
// @Tags problems
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param problemId path int true "Problem ID"
// @Param file formData file true "Source file"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/problems/{problemId}/source [post]
func (c *ProblemController) UploadSource(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	problemID, ok := pathInt64(ctx, "problemId")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	name := fmt.Sprintf("set%d/problem%d/%s", setID, problemID, header.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), name, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result, err := c.EditService.Save(ctx.Request.Context(), service.SaveRequest{
		SetID: setID,
		Fields: map[string]string{
			fmt.Sprintf("problem.%d.source_file", problemID): name,
		},
	})
	if err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"sourceFile": name, "url": url, "changed": result.Changed})
}

// DownloadSource godoc
// @Summary Download a problem's source file
// @Tags problems
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param setId path int true "Set ID"
// @Param problemId path int true "Problem ID"
// @Success 200 {file} binary "Source file"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/sets/{setId}/problems/{problemId}/source [get]
func (c *ProblemController) DownloadSource(ctx *gin.Context) {
	setID, ok := pathUint(ctx, "setId")
	if !ok {
		return
	}
	problemID, ok := pathInt64(ctx, "problemId")
	if !ok {
		return
	}

	view, err := c.EditService.Detail(ctx.Request.Context(), setID, 0, 0)
	if err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	source := ""
	for _, p := range view.Problems {
		if p.ProblemID != problemID {
			continue
		}
		for _, f := range p.Fields {
			if f.Field == "source_file" {
				source = f.Value
			}
		}
	}
	if source == "" {
		util.NotFound(ctx)
		return
	}

	reader, err := c.Storage.Download(ctx.Request.Context(), source)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	defer reader.Close()

	ctx.Header("Content-Disposition", "attachment; filename="+source)
	ctx.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(ctx.Writer, reader); err != nil {
		return
	}
}
