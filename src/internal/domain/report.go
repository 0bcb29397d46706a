package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReportProductCreditCard = "CREDIT_CARD"
	ReportProductLoan       = "LOAN"
	ReportProductAccount    = "ACCOUNT"

	DefaultCommissionClass = "FEE"
)

type ProductDailyAverage struct {
	ProductType   string
	ProductID     string
	ProductNumber *string
	Average       decimal.Decimal
}

type CustomerDailyAverageReport struct {
	CustomerID   string
	Month        string
	FromDate     time.Time
	ToDate       time.Time
	DaysComputed int
	Products     []ProductDailyAverage
	Total        decimal.Decimal
}

type CommissionItem struct {
	ProductType    string
	ProductID      string
	ProductNumber  string
	CommissionType string
	Total          decimal.Decimal
}

type CommissionReport struct {
	From  time.Time
	To    time.Time
	Items []CommissionItem
	Total decimal.Decimal
}
