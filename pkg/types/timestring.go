package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени (ожидается HH:MM)
	ErrInvalidTimeFormat = errors.New("types: invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда результат операции выходит за пределы суток
	ErrTimeOutOfRange = errors.New("types: time is out of 24h range")
)

// TimeString время суток в формате "HH:MM"
// Используется для всей арифметики слотов: хранится в БД как time,
// сравнивается и складывается в минутах от полуночи
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит строку "HH:MM" (а также "HH:MM:SS" из Postgres).
// "24:00" принимается как граничное значение: так Postgres хранит конец
// рабочего окна, заканчивающегося в полночь
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(normalize(s))
	if ts == "24:00" {
		return ts, nil
	}
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(mins int) (TimeString, error) {
	if mins < 0 || mins >= 24*60 {
		return "", ErrTimeOutOfRange
	}
	return TimeString(fmt.Sprintf("%02d:%02d", mins/60, mins%60)), nil
}

// normalize приводит "H:M", "HH:MM:SS" к "HH:MM"
func normalize(s string) string {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err == nil {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err == nil {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return s
}

// Validate проверяет формат и диапазон значения
func (t TimeString) Validate() error {
	var h, m int
	if _, err := fmt.Sscanf(string(t), "%02d:%02d", &h, &m); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут от полуночи
// Значение должно быть предварительно провалидировано
func (t TimeString) Minutes() int {
	var h, m int
	fmt.Sscanf(string(t), "%02d:%02d", &h, &m)
	return h*60 + m
}

// AddMinutes возвращает время через mins минут
// Возвращает ошибку при выходе за пределы суток
func (t TimeString) AddMinutes(mins int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.Minutes() + mins
	// Конец интервала ровно в полночь допустим как граница окна
	if total == 24*60 {
		return TimeString("24:00"), nil
	}
	return NewTimeStringFromMinutes(total)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.cmpMinutes() < other.cmpMinutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.cmpMinutes() > other.cmpMinutes()
}

// cmpMinutes как Minutes, но понимает граничное значение "24:00"
func (t TimeString) cmpMinutes() int {
	if t == "24:00" {
		return 24 * 60
	}
	return t.Minutes()
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer для записи в колонку типа time.
// Граница окна "24:00" пишется как есть, время записи так начинаться не может
func (t TimeString) Value() (driver.Value, error) {
	if t == "24:00" {
		return "24:00:00", nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t) + ":00", nil
}

// Scan реализует sql.Scanner: Postgres возвращает time как строку "HH:MM:SS"
// либо как time.Time в зависимости от драйвера
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}
