package handler

import (
	"encoding/json"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/interface/http/dto"
	"github.com/ignatzorin/arbitration-backend/internal/interface/http/response"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/arbitration"
)

const maxCasesPageSize = 100

type ArbitrationHandler struct {
	engine  *arbitration.Engine
	queries *arbitration.Queries
}

func NewArbitrationHandler(engine *arbitration.Engine, queries *arbitration.Queries) *ArbitrationHandler {
	return &ArbitrationHandler{
		engine:  engine,
		queries: queries,
	}
}

// Execute обрабатывает POST /api/actions/:action. Тело запроса - параметры действия.
func (h *ArbitrationHandler) Execute(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать тело запроса")
		return
	}

	action := arbitration.Action(c.Param("action"))
	result, err := h.engine.Dispatch(c.Request.Context(), principal, action, json.RawMessage(raw))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ActionResponse{
		Action: string(action),
		Actor:  principal,
		Result: result,
	})
}

func (h *ArbitrationHandler) ListActions(c *gin.Context) {
	actions := h.engine.Actions()
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	sort.Strings(names)

	response.Success(c, dto.ActionsResponse{Actions: names})
}

// Deposit обрабатывает POST /api/ledger/transfers от токен-леджера.
func (h *ArbitrationHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректное уведомление о переводе")
		return
	}

	err := h.engine.Deposit(c.Request.Context(), entity.Deposit{
		From:     req.From,
		To:       req.To,
		Quantity: req.Quantity,
		Memo:     req.Memo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"accepted": true})
}

func (h *ArbitrationHandler) GetConfig(c *gin.Context) {
	cfg, err := h.queries.Config(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *ArbitrationHandler) GetBalance(c *gin.Context) {
	owner := c.Param("owner")
	if owner == "" {
		var err error
		if owner, err = getPrincipal(c); err != nil {
			response.Error(c, err)
			return
		}
	}

	balance, err := h.queries.Balance(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.BalanceResponse{Owner: owner, Balance: balance})
}

func (h *ArbitrationHandler) ListCases(c *gin.Context) {
	status, err := parseCaseStatusQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	if limit < 1 || limit > maxCasesPageSize {
		limit = 20
	}
	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	cases, err := h.queries.Cases(c.Request.Context(), repository.CaseFilter{
		Claimant:   c.Query("claimant"),
		Respondant: c.Query("respondant"),
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, cases, len(cases), limit, offset)
}

func (h *ArbitrationHandler) GetCase(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.queries.Case(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, details)
}

func (h *ArbitrationHandler) ListArbitrators(c *gin.Context) {
	arbs, err := h.queries.Arbitrators(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, arbs)
}

func (h *ArbitrationHandler) GetArbitrator(c *gin.Context) {
	arb, err := h.queries.Arbitrator(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, arb)
}

func (h *ArbitrationHandler) ListNominees(c *gin.Context) {
	nominees, err := h.queries.Nominees(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nominees)
}

func (h *ArbitrationHandler) ListElections(c *gin.Context) {
	elections, err := h.queries.Elections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, elections)
}

func (h *ArbitrationHandler) GetElection(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	election, err := h.queries.Election(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, election)
}

// ListTransfers возвращает исходящие переводы в пользу текущего аккаунта.
func (h *ArbitrationHandler) ListTransfers(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	transfers, err := h.queries.Transfers(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, transfers)
}

// GetTransfer отдаёт перевод только его получателю или отправителю.
func (h *ArbitrationHandler) GetTransfer(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "параметр id должен быть валидным UUID")
		return
	}

	transfer, err := h.queries.Transfer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if transfer.To != principal && transfer.From != principal {
		response.Error(c, apperror.ErrForbidden)
		return
	}
	response.Success(c, transfer)
}
