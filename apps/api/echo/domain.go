package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core/domain"
)

type domainApi struct {
	svc      domain.ServiceInterface
	validate *validator.Validate
}

func registerDomainAPI(g *echo.Group, auth []echo.MiddlewareFunc, svc domain.ServiceInterface, validate *validator.Validate) {
	api := domainApi{svc: svc, validate: validate}

	dg := g.Group("/domains", auth...)
	dg.GET("", api.query, staffMiddleware)
	dg.POST("", api.create, adminMiddleware())
	dg.GET("/:domainId", api.retrieve, staffMiddleware)
}

func (api *domainApi) create(ctx echo.Context) error {
	var data domain.NewDomain
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDomain")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	dom, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating domain")
	}
	return ctx.JSON(http.StatusCreated, dom)
}

func (api *domainApi) query(ctx echo.Context) error {
	doms, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying domains")
	}
	if doms == nil {
		doms = []domain.Domain{}
	}
	return ctx.JSON(http.StatusOK, doms)
}

func (api *domainApi) retrieve(ctx echo.Context) error {
	dom, err := api.svc.Get(ctx.Request().Context(), ctx.Param("domainId"))
	if err != nil {
		return errors.Wrap(err, "getting domain")
	}
	return ctx.JSON(http.StatusOK, dom)
}
