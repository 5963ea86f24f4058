package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteSalesByCustomerCSV serialises the per-customer summary to CSV.
func WriteSalesByCustomerCSV(w io.Writer, rows []CustomerSalesRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Customer ID", "Customer", "Sales", "Total Sold", "Total Paid", "Pending"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			strconv.FormatInt(row.CustomerID, 10),
			row.CustomerName,
			strconv.Itoa(row.SaleCount),
			row.TotalSold.String(),
			row.TotalPaid.String(),
			row.Pending.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePaymentsByMethodCSV serialises payment method totals to CSV.
func WritePaymentsByMethodCSV(w io.Writer, rows []MethodTotalsRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Method", "Count", "Total"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Method,
			strconv.Itoa(row.Count),
			row.Total.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteStockCSV serialises current stock levels to CSV.
func WriteStockCSV(w io.Writer, rows []StockRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Product ID", "Product", "Stock", "Min Stock", "Low"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			strconv.FormatInt(row.ProductID, 10),
			row.Name,
			strconv.Itoa(row.StockQty),
			strconv.Itoa(row.MinStock),
			strconv.FormatBool(row.Low),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
