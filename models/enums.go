package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type UnitType string

const (
	UnitTypeArea   UnitType = "area"
	UnitTypeLength UnitType = "length"
	UnitTypeCount  UnitType = "count"
	UnitTypeTime   UnitType = "time"
	UnitTypeVolume UnitType = "volume"
	UnitTypeWeight UnitType = "weight"
)

func (t *UnitType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("unit type must be string")
	}
	switch str {
	case "area":
		*t = UnitTypeArea
	case "length":
		*t = UnitTypeLength
	case "count":
		*t = UnitTypeCount
	case "time":
		*t = UnitTypeTime
	case "volume":
		*t = UnitTypeVolume
	case "weight":
		*t = UnitTypeWeight
	default:
		return errors.New("invalid unit type")
	}
	return nil
}

type MeasurementType string

const (
	MeasurementTypeArea  MeasurementType = "area"
	MeasurementTypeLine  MeasurementType = "line"
	MeasurementTypePoint MeasurementType = "point"
)

func (t *MeasurementType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("measurement type must be string")
	}
	switch str {
	case "area":
		*t = MeasurementTypeArea
	case "line":
		*t = MeasurementTypeLine
	case "point":
		*t = MeasurementTypePoint
	default:
		return errors.New("invalid measurement type")
	}
	return nil
}

type AdjustmentType string

const (
	AdjustmentTypeFixed      AdjustmentType = "fixed"
	AdjustmentTypePercentage AdjustmentType = "percentage"
)

func (t *AdjustmentType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("adjustment type must be string")
	}
	switch str {
	case "fixed":
		*t = AdjustmentTypeFixed
	case "percentage":
		*t = AdjustmentTypePercentage
	default:
		return errors.New("invalid adjustment type")
	}
	return nil
}

type AddonCalculationType string

const (
	AddonCalculationTypeTotal   AddonCalculationType = "total"
	AddonCalculationTypePerUnit AddonCalculationType = "per_unit"
	AddonCalculationTypeArea    AddonCalculationType = "area_calculation"
)

func (t *AddonCalculationType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("calculation type must be string")
	}
	switch str {
	case "total":
		*t = AddonCalculationTypeTotal
	case "per_unit":
		*t = AddonCalculationTypePerUnit
	case "area_calculation":
		*t = AddonCalculationTypeArea
	default:
		return errors.New("invalid calculation type")
	}
	return nil
}

type RangeDisplayFormat string

const (
	RangeDisplayFormatPercentage    RangeDisplayFormat = "percentage"
	RangeDisplayFormatDollarAmounts RangeDisplayFormat = "dollar_amounts"
)

func (t *RangeDisplayFormat) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("range display format must be string")
	}
	switch str {
	case "percentage":
		*t = RangeDisplayFormatPercentage
	case "dollar_amounts":
		*t = RangeDisplayFormatDollarAmounts
	default:
		return errors.New("invalid range display format")
	}
	return nil
}

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "Draft"
	QuoteStatusSubmitted QuoteStatus = "Submitted"
	QuoteStatusAccepted  QuoteStatus = "Accepted"
	QuoteStatusDeclined  QuoteStatus = "Declined"
	QuoteStatusExpired   QuoteStatus = "Expired"
	QuoteStatusCancelled QuoteStatus = "Cancelled"
)

func (t *QuoteStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("quote status must be string")
	}
	switch str {
	case "Draft":
		*t = QuoteStatusDraft
	case "Submitted":
		*t = QuoteStatusSubmitted
	case "Accepted":
		*t = QuoteStatusAccepted
	case "Declined":
		*t = QuoteStatusDeclined
	case "Expired":
		*t = QuoteStatusExpired
	case "Cancelled":
		*t = QuoteStatusCancelled
	default:
		return errors.New("invalid quote status")
	}
	return nil
}

type QuoteSource string

const (
	QuoteSourceWidget    QuoteSource = "widget"
	QuoteSourceDashboard QuoteSource = "dashboard"
)

func (t *QuoteSource) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("quote source must be string")
	}
	switch str {
	case "widget":
		*t = QuoteSourceWidget
	case "dashboard":
		*t = QuoteSourceDashboard
	default:
		return errors.New("invalid quote source")
	}
	return nil
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusScheduled TaskStatus = "Scheduled"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusCancelled TaskStatus = "Cancelled"
)

func (t *TaskStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("task status must be string")
	}
	switch str {
	case "Pending":
		*t = TaskStatusPending
	case "Scheduled":
		*t = TaskStatusScheduled
	case "Completed":
		*t = TaskStatusCompleted
	case "Cancelled":
		*t = TaskStatusCancelled
	default:
		return errors.New("invalid task status")
	}
	return nil
}

// QuoteEventAction marks outbox rows: C = create, U = update, D = delete.
type QuoteEventAction string

const (
	QuoteEventActionCreate QuoteEventAction = "C"
	QuoteEventActionUpdate QuoteEventAction = "U"
	QuoteEventActionDelete QuoteEventAction = "D"
)

// QuoteEventType is the routing key consumers filter on.
type QuoteEventType string

const (
	QuoteEventTypeQuoteCreated       QuoteEventType = "QuoteCreated"
	QuoteEventTypeQuoteUpdated       QuoteEventType = "QuoteUpdated"
	QuoteEventTypeQuoteDeleted       QuoteEventType = "QuoteDeleted"
	QuoteEventTypeQuoteSubmitted     QuoteEventType = "QuoteSubmitted"
	QuoteEventTypeQuoteStatusChanged QuoteEventType = "QuoteStatusChanged"
)

type MyDateString time.Time

func (t MyDateString) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format("2006-01-02T15:04:05"))
}

// Parse the string into time.Time object
func (t *MyDateString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("MyDateString must be string")
	}

	// Parse the date string into a time.Time object
	localTime, err := time.Parse("2006-01-02T15:04:05", str)
	if err != nil {
		return errors.New("error parsing datetime")
	}
	*t = MyDateString(localTime)

	return nil
}

func (t *MyDateString) StartOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "America/New_York"
	}

	// Load the location for the given timezone
	location, err := time.LoadLocation(timezone)
	if err != nil {
		fmt.Println("Error loading location:", err)
		return err
	}

	// Convert the start of the day local time to the specified timezone
	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		0, 0, 0, 0,
		location,
	)

	// Convert the time to UTC
	utcTime := localTimeInZone.In(time.UTC)
	*t = MyDateString(utcTime)

	return nil
}

func (t *MyDateString) EndOfDayUTCTime(timezone string) error {
	// do nothing if the pointer is nil
	if t == nil {
		return nil
	}

	localTime := time.Time(*t)

	if timezone == "" {
		timezone = "America/New_York"
	}

	// Load the location for the given timezone
	location, err := time.LoadLocation(timezone)
	if err != nil {
		fmt.Println("Error loading location:", err)
		return err
	}

	// Convert the end of the day local time to the specified timezone
	localTimeInZone := time.Date(
		localTime.Year(), localTime.Month(), localTime.Day(),
		23, 59, 59, 999, // Max nanoseconds
		location,
	)

	// Convert the time to UTC
	utcTime := localTimeInZone.In(time.UTC)
	*t = MyDateString(utcTime)

	return nil
}

// Value implements the driver.Valuer interface
func (t MyDateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface
func (t *MyDateString) Scan(value interface{}) error {
	if value == nil {
		*t = MyDateString(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = MyDateString(v)
	default:
		return fmt.Errorf("cannot convert %T to MyDateString", value)
	}
	return nil
}

func (t *MyDateString) SetDefaultNowIfNil() *MyDateString {
	if t == nil {
		now := MyDateString(time.Now())
		return &now
	}
	return t
}
