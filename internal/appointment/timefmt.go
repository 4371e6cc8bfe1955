package appointment

import (
	"fmt"
	"strconv"

	"github.com/hitoshi/beautyparlour/internal/model"
)

// FormatTimeToAMPM は24時間表記のHH:mmを12時間表記の"h:mm AM/PM"に変換する。
// 0時は12 AM、12時は12 PM。形式が不正な場合は入力をそのまま返す。
func FormatTimeToAMPM(hhmm string) string {
	m := model.TimeOfDayPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return hhmm
	}

	hour, _ := strconv.Atoi(m[1])
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}

	return fmt.Sprintf("%d:%s %s", h12, m[2], suffix)
}
