package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core/concept"
)

var conceptOrderingFields = []string{"name", "status", "display_order", "created_at", "updated_at"}

type conceptApi struct {
	svc      concept.ServiceInterface
	validate *validator.Validate
}

func registerConceptAPI(g *echo.Group, auth []echo.MiddlewareFunc, svc concept.ServiceInterface, validate *validator.Validate) {
	api := conceptApi{svc: svc, validate: validate}

	dg := g.Group("/domains/:domainId/concepts", auth...)
	dg.Use(staffMiddleware)
	dg.GET("", api.query)
	dg.POST("/import", api.importOutline)
	dg.POST("/extract", api.extract)
	dg.POST("/check-duplicate", api.checkDuplicate)

	cg := g.Group("/concepts", auth...)
	cg.PATCH("/:id/status", api.updateStatus, adminMiddleware())
}

type (
	ImportResponse struct {
		Success        bool                       `json:"success"`
		InsertedCount  int                        `json:"inserted_count"`
		SkippedCount   int                        `json:"skipped_count"`
		SkippedDetails []concept.SkippedDuplicate `json:"skipped_details"`
		Message        string                     `json:"message"`
	}

	ExtractResponse struct {
		Success    bool                `json:"success"`
		Outline    string              `json:"outline"`
		Candidates []concept.Candidate `json:"candidates"`
		Import     *ImportResponse     `json:"import,omitempty"`
	}
)

func newImportResponse(res concept.IngestionResult) ImportResponse {
	skipped := res.SkippedDuplicates
	if skipped == nil {
		skipped = []concept.SkippedDuplicate{}
	}
	return ImportResponse{
		Success:        true,
		InsertedCount:  res.InsertedCount,
		SkippedCount:   len(skipped),
		SkippedDetails: skipped,
		Message:        fmt.Sprintf("Imported %d concepts, skipped %d duplicates", res.InsertedCount, len(skipped)),
	}
}

// Handlers

func (api *conceptApi) importOutline(ctx echo.Context) error {
	data := concept.ImportRequest{DomainID: ctx.Param("domainId")} // the body may override it
	if err := ctx.Bind(&data); err != nil {
		return ingestionFailure(errors.Wrap(err, "binding to ImportRequest"))
	}
	if err := data.Validate(api.validate); err != nil {
		return ingestionFailure(err)
	}

	p, err := getContextPerson(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context person")
	}

	res, err := api.svc.Import(ctx.Request().Context(), data, p, p.IsAdmin())
	if err != nil {
		return ingestionFailure(errors.Wrap(err, "importing concepts"))
	}
	return ctx.JSON(http.StatusOK, newImportResponse(res))
}

func (api *conceptApi) extract(ctx echo.Context) error {
	data := concept.ExtractRequest{DomainID: ctx.Param("domainId")}
	if err := ctx.Bind(&data); err != nil {
		return ingestionFailure(errors.Wrap(err, "binding to ExtractRequest"))
	}
	if err := data.Validate(api.validate); err != nil {
		return ingestionFailure(err)
	}

	p, err := getContextPerson(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context person")
	}

	res, err := api.svc.Extract(ctx.Request().Context(), data, p, p.IsAdmin())
	if err != nil {
		return ingestionFailure(errors.Wrap(err, "extracting concepts"))
	}

	resp := ExtractResponse{Success: true, Outline: res.Outline, Candidates: res.Candidates}
	if resp.Candidates == nil {
		resp.Candidates = []concept.Candidate{}
	}
	if res.Result != nil {
		ir := newImportResponse(*res.Result)
		resp.Import = &ir
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *conceptApi) checkDuplicate(ctx echo.Context) error {
	data := concept.DuplicateCheckRequest{DomainID: ctx.Param("domainId")}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DuplicateCheckRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.CheckDuplicate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "checking duplicate")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *conceptApi) query(ctx echo.Context) error {
	filter := new(concept.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []concept.Concept{})
	}
	filter.DomainID = ctx.Param("domainId")
	ordering := new(Ordering)
	ordering.Bind(ctx, conceptOrderingFields...)

	concepts, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying concepts")
	}
	if concepts == nil {
		concepts = []concept.Concept{}
	}
	return ctx.JSON(http.StatusOK, concepts)
}

func (api *conceptApi) updateStatus(ctx echo.Context) error {
	var data concept.UpdateStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatusRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		return errors.Wrap(err, "updating concept status")
	}
	return ctx.JSON(http.StatusOK, c)
}
