package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"promptshelf/internal/dto"
)

var boardHeaders = table.Row{"Invite code", "Remaining", "1st", "2nd", "3rd", "4th", "Updated"}

func slotMark(used bool) string {
	if used {
		return "used"
	}
	return "free"
}

func renderBoard(rows []dto.InviteView) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(boardHeaders)

	for _, row := range rows {
		tw.AppendRow(table.Row{
			row.InviteCode,
			strconv.Itoa(row.RemainingUses),
			slotMark(row.UsedOnce),
			slotMark(row.UsedTwice),
			slotMark(row.UsedThrice),
			slotMark(row.UsedFourth),
			row.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderStats(stats dto.InviteStats) string {
	return fmt.Sprintf("%d codes, %d slots used, %d uses available", stats.TotalCodes, stats.UsedSlots, stats.AvailableUses)
}
