package http

import (
	"net/http"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RequestValidator plugs validator/v10 into echo's Context.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation failed: "+err.Error())
	}
	return nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid format for parameter "+name)
	}
	return toKernelUUID(id, name)
}

func toKernelUUID(id openapi_types.UUID, name string) (kernel.UUID, error) {
	out, err := kernel.FromGoogleUUID(id)
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return out, nil
}

func queryParam(c echo.Context, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid format for parameter "+name)
	}
	return nil
}

func languageOf(c echo.Context) (language, error) {
	var lang *string
	if err := queryParam(c, "lang", &lang); err != nil {
		return langDefault, err
	}
	if lang != nil && *lang == string(langArabic) {
		return langArabic, nil
	}
	return langDefault, nil
}
