// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Service は予約可能な施術メニューを表す。
type Service string

const (
	// ServiceFacial はフェイシャル。
	ServiceFacial Service = "facial"
	// ServiceMassage はマッサージ。
	ServiceMassage Service = "massage"
	// ServiceHaircut はヘアカット。
	ServiceHaircut Service = "haircut"
	// ServiceManicure はマニキュア。
	ServiceManicure Service = "manicure"
)

// Services は許可された施術メニューの一覧。
var Services = []Service{ServiceFacial, ServiceMassage, ServiceHaircut, ServiceManicure}

// Valid は施術メニューが許可された値かどうかを返す。
func (s Service) Valid() bool {
	for _, v := range Services {
		if s == v {
			return true
		}
	}
	return false
}

// ErrSlotTaken は同一の日付・時刻・施術の枠がすでに予約済みであることを示す。
// リポジトリ層がユニーク制約違反を検出した場合に返す。
var ErrSlotTaken = errors.New("slot already booked")

// TimeOfDayPattern は24時間表記のHH:mm形式。時は00-23、分は00-59のみ許可する。
var TimeOfDayPattern = regexp.MustCompile(`^([0-1]\d|2[0-3]):([0-5]\d)$`)

// ValidTimeOfDay はHH:mm形式の時刻として正しいかを返す。
func ValidTimeOfDay(s string) bool {
	return TimeOfDayPattern.MatchString(s)
}

// Appointment はサロンの予約を表す。
// phoneが検索キーだが、データベース上の一意制約はない。
// (Date, Time, Service)の組は一意制約で保護される。
type Appointment struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Service         Service   `json:"service"`
	SpecialRequests string    `json:"specialRequests"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StartsAt は予約の開始時刻を返す。
// 日付部分とHH:mmを組み合わせたUTCの時刻。Timeが不正な場合は日付の0時を返す。
func (a *Appointment) StartsAt() time.Time {
	day := DateOnly(a.Date)
	m := TimeOfDayPattern.FindStringSubmatch(a.Time)
	if m == nil {
		return day
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return day.Add(time.Duration(h)*time.Hour + time.Duration(min)*time.Minute)
}

// Slot は予約枠を一意に識別する組を返す。
func (a *Appointment) Slot() Slot {
	return Slot{Date: DateOnly(a.Date), Time: a.Time, Service: a.Service}
}

// Slot は(日付, 時刻, 施術)の予約枠。
type Slot struct {
	Date    time.Time
	Time    string
	Service Service
}

// String はクライアントに返す競合メッセージ用の表記を返す。
func (s Slot) String() string {
	return fmt.Sprintf("%s on %s for the service %q", s.Time, s.Date.Format("Mon Jan 02 2006"), string(s.Service))
}

// DateOnly は時刻をUTCの暦日（0時0分）に丸める。
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dateLayouts はリクエストで受け付ける日付表記。先頭から順に試す。
// 月日の数字はゼロ埋めの有無どちらも受け付ける。
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/1/2",
	"1/2/2006",
	"Mon Jan 02 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate はリクエストの日付文字列を暦日として解釈する。
// タイムゾーンの変換は行わず、UTCの0時に正規化する。
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %q", s)
}
