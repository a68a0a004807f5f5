// Package export writes admin reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/taponce/backend/internal/domain/order"
	"github.com/xuri/excelize/v2"
)

// OrdersSheet is the sheet name of the order export
const OrdersSheet = "Orders"

// ContentTypeXLSX is the MIME type of the generated workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"Order Number", "Created At", "Status", "Payment Status", "Customer", "Phone",
	"Agent", "Card Design", "MSP", "Sale Price", "Commission", "Override",
	"Direct Sale", "Below MSP", "Tracking Number",
}

// WriteOrders writes one row per order to w as an xlsx workbook
func WriteOrders(w io.Writer, rows []order.OrderSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range orderHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(OrdersSheet, cell, header); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(orderHeaders))
	if err := f.SetCellStyle(OrdersSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, o := range rows {
		row := i + 2
		values := []any{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			string(o.Status),
			string(o.PaymentStatus),
			o.CustomerName,
			o.CustomerPhone,
			o.AgentName,
			o.CardDesignName,
			o.MSPAtOrder.InexactFloat64(),
			o.SalePrice.InexactFloat64(),
			o.CommissionAmount.InexactFloat64(),
			o.OverrideCommission.InexactFloat64(),
			o.IsDirectSale,
			o.IsBelowMSP,
			o.TrackingNumber,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(OrdersSheet, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(OrdersSheet, "I2", fmt.Sprintf("L%d", last), moneyStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(OrdersSheet, "A", lastCol, 16); err != nil {
		return err
	}
	if err := f.SetPanes(OrdersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
