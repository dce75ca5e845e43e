package controller

import (
	"fmt"

	"courseset_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// pathUint reads a path parameter as an identifier, answering 400 itself
// when the value is not a valid unsigned integer.
func pathUint(ctx *gin.Context, name string) (uint, bool) {
	v, err := util.ParseUint(ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, fmt.Sprintf("bad %s %q", name, ctx.Param(name)))
		return 0, false
	}
	return v, true
}

func pathInt64(ctx *gin.Context, name string) (int64, bool) {
	v, err := util.ParseInt64(ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, fmt.Sprintf("bad %s %q", name, ctx.Param(name)))
		return 0, false
	}
	return v, true
}

func queryUint(ctx *gin.Context, name string) (uint, bool) {
	v, err := util.ParseUint(ctx.DefaultQuery(name, "0"))
	if err != nil {
		util.BadRequest(ctx, fmt.Sprintf("bad %s %q", name, ctx.Query(name)))
		return 0, false
	}
	return v, true
}

func queryInt(ctx *gin.Context, name string) (int, bool) {
	v, err := util.ParseInt64(ctx.DefaultQuery(name, "0"))
	if err != nil {
		util.BadRequest(ctx, fmt.Sprintf("bad %s %q", name, ctx.Query(name)))
		return 0, false
	}
	return int(v), true
}
