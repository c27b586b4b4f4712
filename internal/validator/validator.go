// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"moneyflow/internal/finance"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("cycle", validateCycle)
		_ = v.RegisterValidation("income_status", validateIncomeStatus)
		_ = v.RegisterValidation("allocation_type", validateAllocationType)
		_ = v.RegisterValidation("accrual_period", validateAccrualPeriod)
		_ = v.RegisterValidation("report_period", validateReportPeriod)
	}
}

// decimalValue lets numeric tags (gt, gte, lte) apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateCycle(fl validator.FieldLevel) bool {
	return finance.Cycle(fl.Field().String()).Valid()
}

func validateIncomeStatus(fl validator.FieldLevel) bool {
	switch finance.SourceStatus(fl.Field().String()) {
	case finance.SourceActive, finance.SourcePaused:
		return true
	}
	return false
}

func validateAllocationType(fl validator.FieldLevel) bool {
	return finance.AllocationType(fl.Field().String()).Valid()
}

func validateAccrualPeriod(fl validator.FieldLevel) bool {
	switch finance.Period(fl.Field().String()) {
	case finance.PeriodToday, finance.PeriodWeek, finance.PeriodMonth, finance.PeriodYear, finance.PeriodCustom:
		return true
	}
	return false
}

func validateReportPeriod(fl validator.FieldLevel) bool {
	switch finance.ReportPeriod(fl.Field().String()) {
	case finance.ReportThisMonth, finance.ReportThisYear, finance.ReportLast12Months:
		return true
	}
	return false
}
