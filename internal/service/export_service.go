package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrExportGenerateFail 生成 Excel 失败
var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写出。
type ExportService interface {
	// ExportInvites 按共享板顺序导出全部邀请码
	ExportInvites(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	invites InviteService
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(invites InviteService, logger *zap.Logger) ExportService {
	return &exportService{invites: invites, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportInvites — 导出邀请码共享板
// ═══════════════════════════════════════════════════════════
//
// 列：Invite code | Remaining | First use | Second use | Third use | Fourth use | Updated at
// 末尾附统计行。

var inviteExportHeaders = []string{
	"Invite code", "Remaining", "First use", "Second use", "Third use", "Fourth use", "Updated at",
}

func (s *exportService) ExportInvites(ctx context.Context) (*bytes.Buffer, string, error) {
	board, err := s.invites.List(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Invites"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range inviteExportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(inviteExportHeaders)-1), 1), headerStyle)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	row := 2
	for _, v := range board.Invites {
		f.SetCellValue(sheetName, cell("A", row), v.InviteCode)
		f.SetCellValue(sheetName, cell("B", row), v.RemainingUses)
		for i, used := range v.Slots() {
			f.SetCellValue(sheetName, cell(colName(2+i), row), usedLabel(used))
		}
		f.SetCellValue(sheetName, cell("G", row), v.UpdatedAt.UTC().Format(time.RFC3339))
		row++
	}

	row++
	f.SetCellValue(sheetName, cell("A", row), "Total codes")
	f.SetCellValue(sheetName, cell("B", row), board.Stats.TotalCodes)
	f.SetCellValue(sheetName, cell("A", row+1), "Available uses")
	f.SetCellValue(sheetName, cell("B", row+1), board.Stats.AvailableUses)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("invite_codes_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func usedLabel(used bool) string {
	if used {
		return "used"
	}
	return "free"
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
