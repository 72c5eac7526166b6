package handler

import (
	"encoding/hex"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/gin-gonic/gin"
)

type ContributeHandler struct {
	contributeLogic *logic.ContributeLogic
}

func NewContributeHandler(contributeLogic *logic.ContributeLogic) *ContributeHandler {
	return &ContributeHandler{contributeLogic: contributeLogic}
}

// Contribute 向项目贡献
func (h *ContributeHandler) Contribute(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献金额")
		return
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(req.Signature, "0x"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的签名格式")
		return
	}

	if err := h.contributeLogic.Contribute(projectId, req.Contributor, amount, sig); err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "贡献成功", nil)
}

// GetUserContribution 获取某贡献者的累计贡献额
func (h *ContributeHandler) GetUserContribution(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	contributor := c.Param("address")
	amount, err := h.contributeLogic.GetUserContribution(projectId, contributor)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"project_id":  projectId,
		"contributor": contributor,
		"amount":      amount.String(),
	})
}
