package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteRegisterPDF renders the attendance register for one run as a PDF.
func WriteRegisterPDF(w io.Writer, run Run, rows []RegisterRow) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Register")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)

	widths := []float64{70, 25, 25, 28, 30, 32, 30}
	headers := []string{"Employee", "Present", "Absent", "Paid leave", "Unpaid leave", "Worked hours", "Overtime"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		cells := []string{
			row.EmployeeName,
			fmt.Sprintf("%d", row.DaysPresent),
			fmt.Sprintf("%d", row.FullDayAbsents),
			row.PaidLeaveDays.String(),
			row.UnpaidLeaveDays.String(),
			row.TotalWorkingHours.String(),
			row.OvertimeHours.String(),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
