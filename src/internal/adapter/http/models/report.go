package models

type ProductDailyAverageResponse struct {
	ProductType   string  `json:"productType"`
	ProductID     string  `json:"productId"`
	ProductNumber *string `json:"productNumber"`
	DailyAverage  string  `json:"dailyAverage"`
}

type DailyAverageReportResponse struct {
	CustomerID        string                        `json:"customerId"`
	Month             string                        `json:"month"`
	FromDate          string                        `json:"fromDate"`
	ToDate            string                        `json:"toDate"`
	DaysComputed      int                           `json:"daysComputed"`
	Products          []ProductDailyAverageResponse `json:"products"`
	TotalDailyAverage string                        `json:"totalDailyAverage"`
}

type CommissionItemResponse struct {
	ProductType    string `json:"productType"`
	ProductID      string `json:"productId"`
	ProductNumber  string `json:"productNumber,omitempty"`
	CommissionType string `json:"commissionType"`
	TotalAmount    string `json:"totalAmount"`
}

type CommissionReportResponse struct {
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	Items      []CommissionItemResponse `json:"items"`
	GrandTotal string                   `json:"grandTotal"`
}
