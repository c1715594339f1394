package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
)

const OrdersSheet = "Orders"

var orderHeader = []any{"Order ID", "Customer ID", "Placed At", "Status", "Payment Status", "Payment Method", "Items", "Total", "City"}

// WriteOrders renders the admin order list as an XLSX workbook.
func WriteOrders(w io.Writer, orders []apiclient.OrderSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(OrdersSheet, "A1", &orderHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(OrdersSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			o.ID,
			o.UserID,
			o.CreatedAt,
			o.Status,
			o.PaymentStatus,
			o.PaymentMethod,
			o.ItemCount,
			o.Total,
			city(o.ShippingAddress),
		}
		if err := f.SetSheetRow(OrdersSheet, cell, &row); err != nil {
			return fmt.Errorf("write order %s: %w", o.ID, err)
		}
	}

	if err := f.SetColWidth(OrdersSheet, "A", "C", 26); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(OrdersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func city(addr map[string]any) string {
	if v, ok := addr["city"].(string); ok {
		return v
	}
	return ""
}
