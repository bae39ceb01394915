package handler

import (
	"errors"
	"net/http"
	"reflect"

	"dukapos/internal/apierror"
	"dukapos/internal/cart"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator wires decimal.Decimal into the validator: the type func makes
// decimals comparable, and the d* tags compare against a decimal literal in
// the tag parameter.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	dcmp := func(fl validator.FieldLevel, ok func(cmp int) bool) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(value.Cmp(bound))
	}
	mustRegister(v, "dgt", func(fl validator.FieldLevel) bool {
		return dcmp(fl, func(cmp int) bool { return cmp > 0 })
	})
	mustRegister(v, "dgte", func(fl validator.FieldLevel) bool {
		return dcmp(fl, func(cmp int) bool { return cmp >= 0 })
	})
	mustRegister(v, "dlte", func(fl validator.FieldLevel) bool {
		return dcmp(fl, func(cmp int) bool { return cmp <= 0 })
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// bindAndValidate binds the JSON body into req and runs struct validation,
// writing the 400 response itself on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid request body: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate is bindAndValidate for query-string forms.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	c.JSON(http.StatusBadRequest, apierror.New("Validation error"))
	return false
}

// pathUUID parses a :param path segment as a UUID, writing the 400 itself.
func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses. Unknown errors become
// opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUserInactive):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrShiftNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrExpenseNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrReceiptNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoOpenShift),
		errors.Is(err, service.ErrShiftAlreadyOpen),
		errors.Is(err, service.ErrProductInUse),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, cart.ErrProductNoStock):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}

// paginated is the standard list envelope.
type paginated struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
