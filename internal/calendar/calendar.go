package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// DateLayout é o formato de data usado em toda a aplicação (padrão BR).
const DateLayout = "02/01/2006"

const isoLayout = "2006-01-02"

// ParseDate aceita DD/MM/YYYY e, como fallback, YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida: %q", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Calendar guarda feriados e a configuração de fins de semana.
// Todas as leituras enxergam um snapshot consistente (RWMutex); as
// mutações substituem o estado de forma atômica.
type Calendar struct {
	mu sync.RWMutex

	holidays         map[string]struct{}
	workingSaturdays map[string]struct{}
	workingSundays   map[string]struct{}

	workSaturdayDefault bool
	workSundayDefault   bool
}

func New() *Calendar {
	return &Calendar{
		holidays:         make(map[string]struct{}),
		workingSaturdays: make(map[string]struct{}),
		workingSundays:   make(map[string]struct{}),
	}
}

// AddResult relata o resultado de uma operação em lote sobre datas.
// Datas malformadas nunca abortam o lote inteiro.
type AddResult struct {
	Added         []string `json:"added"`
	Invalid       []string `json:"invalid"`
	TotalHolidays int      `json:"total_holidays"`
}

type RemoveResult struct {
	Removed       []string `json:"removed"`
	NotFound      []string `json:"not_found"`
	TotalHolidays int      `json:"total_holidays"`
}

// AddHolidays adiciona feriados. Datas duplicadas são ignoradas em
// silêncio; apenas strings malformadas entram em Invalid.
func (c *Calendar) AddHolidays(dates []string) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := AddResult{Added: []string{}, Invalid: []string{}}
	for _, s := range dates {
		t, err := ParseDate(s)
		if err != nil {
			res.Invalid = append(res.Invalid, s)
			continue
		}
		key := FormatDate(t)
		if _, ok := c.holidays[key]; ok {
			continue
		}
		c.holidays[key] = struct{}{}
		res.Added = append(res.Added, key)
	}
	res.TotalHolidays = len(c.holidays)
	return res
}

// RemoveHolidays é idempotente: remover feriado ausente não é erro.
func (c *Calendar) RemoveHolidays(dates []string) RemoveResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := RemoveResult{Removed: []string{}, NotFound: []string{}}
	for _, s := range dates {
		key := s
		if t, err := ParseDate(s); err == nil {
			key = FormatDate(t)
		}
		if _, ok := c.holidays[key]; ok {
			delete(c.holidays, key)
			res.Removed = append(res.Removed, key)
		} else {
			res.NotFound = append(res.NotFound, key)
		}
	}
	res.TotalHolidays = len(c.holidays)
	return res
}

// Holidays retorna os feriados em ordem cronológica.
func (c *Calendar) Holidays() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.holidays))
	for k := range c.holidays {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := time.Parse(DateLayout, out[i])
		b, _ := time.Parse(DateLayout, out[j])
		return a.Before(b)
	})
	return out
}

// SetWeekendDefaults troca os padrões de trabalho em fins de semana.
// Não mexe nas datas com override individual.
func (c *Calendar) SetWeekendDefaults(workSaturday, workSunday bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workSaturdayDefault = workSaturday
	c.workSundayDefault = workSunday
}

func (c *Calendar) WeekendDefaults() (workSaturday, workSunday bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workSaturdayDefault, c.workSundayDefault
}

// SetWeekendOverrides substitui o conjunto de overrides pelas datas
// informadas; qualquer data que ficou de fora volta ao padrão.
func (c *Calendar) SetWeekendOverrides(saturdays, sundays []string) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := AddResult{Added: []string{}, Invalid: []string{}}
	c.workingSaturdays = make(map[string]struct{})
	c.workingSundays = make(map[string]struct{})
	for _, s := range saturdays {
		t, err := ParseDate(s)
		if err != nil {
			res.Invalid = append(res.Invalid, s)
			continue
		}
		key := FormatDate(t)
		c.workingSaturdays[key] = struct{}{}
		res.Added = append(res.Added, key)
	}
	for _, s := range sundays {
		t, err := ParseDate(s)
		if err != nil {
			res.Invalid = append(res.Invalid, s)
			continue
		}
		key := FormatDate(t)
		c.workingSundays[key] = struct{}{}
		res.Added = append(res.Added, key)
	}
	res.TotalHolidays = len(c.holidays)
	return res
}

// Clear limpa toda a configuração do calendário.
func (c *Calendar) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays = make(map[string]struct{})
	c.workingSaturdays = make(map[string]struct{})
	c.workingSundays = make(map[string]struct{})
	c.workSaturdayDefault = false
	c.workSundayDefault = false
}

// IsWorkingDay diz se a data é dia útil: feriado nunca é; sábado e
// domingo seguem o override da data exata, senão o padrão; os demais
// dias da semana sempre são.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isWorkingDayLocked(date)
}

func (c *Calendar) isWorkingDayLocked(date time.Time) bool {
	key := FormatDate(date)
	if _, ok := c.holidays[key]; ok {
		return false
	}
	switch date.Weekday() {
	case time.Saturday:
		if _, ok := c.workingSaturdays[key]; ok {
			return true
		}
		return c.workSaturdayDefault
	case time.Sunday:
		if _, ok := c.workingSundays[key]; ok {
			return true
		}
		return c.workSundayDefault
	}
	return true
}

// NextWorkingDay retorna a própria data se ela for útil, senão o
// primeiro dia útil seguinte.
func (c *Calendar) NextWorkingDay(date time.Time) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nextWorkingDayLocked(date)
}

func (c *Calendar) nextWorkingDayLocked(date time.Time) time.Time {
	d := date
	// limite de busca, espelha o guarda de 365 dias do fluxo antigo
	for i := 0; i < 3660; i++ {
		if c.isWorkingDayLocked(d) {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
	return date
}

// AddWorkingDays avança a data em exatamente n dias úteis, pulando os
// não úteis. n fracionário representa um resto parcial de horas e ocupa
// o dia útil seguinte inteiro. AddWorkingDays(d, 0) == NextWorkingDay(d).
func (c *Calendar) AddWorkingDays(date time.Time, n float64) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d := c.nextWorkingDayLocked(date)
	steps := int(n)
	if n-float64(steps) > 1e-9 {
		steps++
	}
	for i := 0; i < steps; i++ {
		d = d.AddDate(0, 0, 1)
		d = c.nextWorkingDayLocked(d)
	}
	return d
}

// CountWorkingDays conta os dias úteis entre start e end, inclusive.
func (c *Calendar) CountWorkingDays(start, end time.Time) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if start.After(end) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.isWorkingDayLocked(d) {
			count++
		}
	}
	return count
}

// WeekendDay é um sábado ou domingo do ano com o flag de trabalho já
// resolvido (override ou padrão).
type WeekendDay struct {
	Date    string `json:"date"`
	Working bool   `json:"working"`
}

func (c *Calendar) WeekendsInYear(year int) (saturdays, sundays []WeekendDay) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := FormatDate(d)
		switch d.Weekday() {
		case time.Saturday:
			_, override := c.workingSaturdays[key]
			saturdays = append(saturdays, WeekendDay{Date: key, Working: override || c.workSaturdayDefault})
		case time.Sunday:
			_, override := c.workingSundays[key]
			sundays = append(sundays, WeekendDay{Date: key, Working: override || c.workSundayDefault})
		}
	}
	return saturdays, sundays
}

type WeekendConfig struct {
	WorkSaturday bool `json:"work_saturday"`
	WorkSunday   bool `json:"work_sunday"`
}

type Summary struct {
	TotalHolidays    int           `json:"total_holidays"`
	Holidays         []string      `json:"holidays"`
	WeekendConfig    WeekendConfig `json:"weekend_config"`
	WorkingSaturdays int           `json:"working_saturdays_count"`
	WorkingSundays   int           `json:"working_sundays_count"`
}

func (c *Calendar) Summary() Summary {
	holidays := c.Holidays()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summary{
		TotalHolidays: len(c.holidays),
		Holidays:      holidays,
		WeekendConfig: WeekendConfig{
			WorkSaturday: c.workSaturdayDefault,
			WorkSunday:   c.workSundayDefault,
		},
		WorkingSaturdays: len(c.workingSaturdays),
		WorkingSundays:   len(c.workingSundays),
	}
}

// State é o snapshot persistível do calendário. Os campos espelham o
// documento guardado no catálogo.
type State struct {
	Holidays            []string `json:"holidays"`
	WorkingSaturdays    []string `json:"working_saturdays"`
	WorkingSundays      []string `json:"working_sundays"`
	WorkSaturdayDefault bool     `json:"work_by_default_saturday"`
	WorkSundayDefault   bool     `json:"work_by_default_sunday"`
}

func (c *Calendar) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := State{
		Holidays:            make([]string, 0, len(c.holidays)),
		WorkingSaturdays:    make([]string, 0, len(c.workingSaturdays)),
		WorkingSundays:      make([]string, 0, len(c.workingSundays)),
		WorkSaturdayDefault: c.workSaturdayDefault,
		WorkSundayDefault:   c.workSundayDefault,
	}
	for k := range c.holidays {
		st.Holidays = append(st.Holidays, k)
	}
	for k := range c.workingSaturdays {
		st.WorkingSaturdays = append(st.WorkingSaturdays, k)
	}
	for k := range c.workingSundays {
		st.WorkingSundays = append(st.WorkingSundays, k)
	}
	sort.Strings(st.Holidays)
	sort.Strings(st.WorkingSaturdays)
	sort.Strings(st.WorkingSundays)
	return st
}

// Restore substitui o estado inteiro pelo snapshot carregado do catálogo.
func (c *Calendar) Restore(st State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holidays = make(map[string]struct{}, len(st.Holidays))
	c.workingSaturdays = make(map[string]struct{}, len(st.WorkingSaturdays))
	c.workingSundays = make(map[string]struct{}, len(st.WorkingSundays))
	for _, s := range st.Holidays {
		c.holidays[s] = struct{}{}
	}
	for _, s := range st.WorkingSaturdays {
		c.workingSaturdays[s] = struct{}{}
	}
	for _, s := range st.WorkingSundays {
		c.workingSundays[s] = struct{}{}
	}
	c.workSaturdayDefault = st.WorkSaturdayDefault
	c.workSundayDefault = st.WorkSundayDefault
}
