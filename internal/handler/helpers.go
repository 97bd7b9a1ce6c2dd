package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Akilucky-rogue/biz-boundless/internal/apierror"
	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/middleware"
	"github.com/Akilucky-rogue/biz-boundless/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that tags like
	// min=0, gt=0, required work on money and quantity fields.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// places=N caps the decimal places of a number at its column scale.
	if err := validate.RegisterValidation("places", decimalPlaces); err != nil {
		panic(err)
	}

	// Report JSON names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// decimalPlaces sees decimals through the float custom type; the shortest
// float representation keeps the digits the client sent.
func decimalPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	var d decimal.Decimal
	switch v := fl.Field(); v.Kind() {
	case reflect.Float32, reflect.Float64:
		d = decimal.NewFromFloat(v.Float())
	case reflect.Int, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
	return calc.FitsPlaces(d, int32(places))
}

// bindAndValidate binds the JSON body and runs the validator tags.
// Returns false after writing the error response; the caller returns at once.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// fieldPath drops the root struct name: "CreateInvoiceRequest.items[0].quantity"
// becomes "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// paramID parses the :name path parameter as a UUID.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user's id, nil on public routes.
func currentUserID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}

// writeError maps service errors to HTTP responses. Anything unclassified is
// attached to the context for ErrorHandler to log and answered with a 500.
func writeError(c *gin.Context, err error) {
	var verr *calc.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(verr.Fields()))
		return
	}

	status := 0
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	if status != 0 {
		c.JSON(status, apierror.New(err.Error()))
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}
