package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

// Status de uma sugestão.
const (
	StatusCritical = "critical"
	StatusImprove  = "improve"
	StatusKeep     = "keep"
)

type CatalogStorage interface {
	GetMachines(ctx context.Context) ([]*storage.Machine, error)
	GetAllProducts(ctx context.Context) ([]*storage.Product, error)
}

// Optimizer avalia, para cada pedido, todas as máquinas capazes de
// produzir a referência e sugere a troca que mais reduz o tempo de
// conclusão. As estimativas são isoladas (pedido sozinho a partir da
// data de início): o objetivo é ranquear máquinas, não gerar um plano.
type Optimizer struct {
	storage CatalogStorage
	cal     *calendar.Calendar

	// ganho mínimo em horas para valer uma sugestão de melhoria
	minSavingsHours float64
}

func New(storage CatalogStorage, cal *calendar.Calendar, minSavingsHours float64) *Optimizer {
	return &Optimizer{storage: storage, cal: cal, minSavingsHours: minSavingsHours}
}

// MachineOption é uma máquina avaliada para um pedido. Viável = capaz de
// produzir a referência e com conclusão dentro do prazo.
type MachineOption struct {
	Machine      string  `json:"maquina"`
	TotalHours   float64 `json:"tempo_total_horas"`
	Availability float64 `json:"disponibilidade"`
	EndDate      string  `json:"data_fim"`
	Feasible     bool    `json:"viavel"`
	IsCurrent    bool    `json:"is_current"`
	IsSuggested  bool    `json:"is_suggested"`
}

type Improvement struct {
	HasImprovement bool    `json:"has_improvement"`
	TimeSavedHours float64 `json:"time_saved_hours"`
	Percentage     float64 `json:"percentage"`
}

type Suggestion struct {
	Order            storage.Order   `json:"order"`
	CurrentMachine   string          `json:"current_machine"`
	SuggestedMachine string          `json:"suggested_machine"`
	Reason           string          `json:"reason"`
	Status           string          `json:"status"`
	Options          []MachineOption `json:"options"`
	TimeImprovement  Improvement     `json:"time_improvement"`
}

// ExcludedOrder é um pedido que ficou fora da análise (máquina ou
// capacidade de produto desconhecida, data inválida).
type ExcludedOrder struct {
	Order  storage.Order `json:"order"`
	Reason string        `json:"reason"`
}

type Statistics struct {
	TotalOrders     int     `json:"total_orders"`
	CriticalChanges int     `json:"critical_changes"`
	Improvements    int     `json:"improvements"`
	KeepSame        int     `json:"keep_same"`
	TotalChanges    int     `json:"total_changes_suggested"`
	EfficiencyGain  float64 `json:"efficiency_gain"`
	MeanMachineLoad float64 `json:"mean_machine_load"`
}

type Result struct {
	Suggestions  []*Suggestion      `json:"suggestions"`
	Statistics   Statistics         `json:"statistics"`
	MachineLoads map[string]float64 `json:"machine_loads"`
	Errors       []ExcludedOrder    `json:"errors"`
}

// Suggest analisa os pedidos contra o catálogo de máquinas/produtos.
func (o *Optimizer) Suggest(ctx context.Context, orders []*storage.Order, startDate time.Time) (*Result, error) {
	const op = "service.optimizer.Suggest"

	var (
		machines []*storage.Machine
		products []*storage.Product
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		machines, err = o.storage.GetMachines(gCtx)
		if err != nil {
			return fmt.Errorf("máquinas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = o.storage.GetAllProducts(gCtx)
		if err != nil {
			return fmt.Errorf("produtos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	availability := make(map[string]float64, len(machines))
	names := make([]string, 0, len(machines))
	for _, m := range machines {
		availability[m.Name] = m.HoursPerDay
		names = append(names, m.Name)
	}
	sort.Strings(names)

	capability := buildCapability(products)

	// pedidos mais urgentes primeiro
	ordered := append([]*storage.Order{}, orders...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, errA := calendar.ParseDate(ordered[i].DueDate)
		b, errB := calendar.ParseDate(ordered[j].DueDate)
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})

	result := &Result{
		Suggestions:  []*Suggestion{},
		MachineLoads: make(map[string]float64),
		Errors:       []ExcludedOrder{},
	}

	var totalSaved, totalOriginal float64

	for _, order := range ordered {
		if reason := planning.ValidateOrder(order); reason != "" {
			result.Errors = append(result.Errors, ExcludedOrder{Order: *order, Reason: reason})
			continue
		}
		due, err := calendar.ParseDate(order.DueDate)
		if err != nil {
			result.Errors = append(result.Errors, ExcludedOrder{Order: *order, Reason: err.Error()})
			continue
		}
		if _, ok := availability[order.Machine]; !ok {
			cfgErr := &planning.ConfigurationError{Machine: order.Machine}
			result.Errors = append(result.Errors, ExcludedOrder{Order: *order, Reason: cfgErr.Error()})
			continue
		}

		options := o.evaluateOptions(order, names, availability, capability, startDate, due)
		if len(options) == 0 {
			result.Errors = append(result.Errors, ExcludedOrder{
				Order:  *order,
				Reason: fmt.Sprintf("nenhuma máquina com capacidade para o produto %s", order.ProductRef),
			})
			continue
		}

		sugg := o.classify(order, options)
		result.Suggestions = append(result.Suggestions, sugg)
		result.MachineLoads[sugg.SuggestedMachine] += suggestedHours(sugg)

		totalOriginal += currentHours(sugg)
		if sugg.Status != StatusKeep {
			totalSaved += sugg.TimeImprovement.TimeSavedHours
		}
	}

	result.Statistics = o.buildStatistics(result, totalSaved, totalOriginal)
	return result, nil
}

// evaluateOptions estima a conclusão do pedido em cada máquina elegível,
// ordenada por tempo crescente. A máquina atual usa os tempos do próprio
// pedido; as demais, os tempos do cadastro de produto delas.
func (o *Optimizer) evaluateOptions(order *storage.Order, names []string, availability map[string]float64,
	capability map[string]map[string]*storage.Product, startDate time.Time, due time.Time) []MachineOption {

	var options []MachineOption
	for _, name := range names {
		avail := availability[name]
		if avail <= 0 {
			continue
		}

		var hours float64
		if name == order.Machine {
			hours = planning.OrderHours(*order)
		} else {
			p := lookupProduct(capability, name, order.ProductRef)
			if p == nil {
				continue // máquina sem capacidade para a referência
			}
			alt := *order
			alt.ProductionTime = p.ProductionTime
			alt.AssemblyTime = p.AssemblyTime
			alt.SecondaryAssembly = p.SecondaryAssembly
			alt.SecondaryAssemblyTime = p.SecondaryAssemblyTime
			hours = planning.OrderHours(alt)
		}

		end := o.cal.AddWorkingDays(startDate, hours/avail)
		options = append(options, MachineOption{
			Machine:      name,
			TotalHours:   hours,
			Availability: avail,
			EndDate:      calendar.FormatDate(end),
			Feasible:     !end.After(due),
			IsCurrent:    name == order.Machine,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalHours < options[j].TotalHours
	})
	return options
}

func (o *Optimizer) classify(order *storage.Order, options []MachineOption) *Suggestion {
	var current *MachineOption
	for i := range options {
		if options[i].IsCurrent {
			current = &options[i]
		}
	}

	var bestFeasible *MachineOption
	for i := range options {
		if options[i].Feasible {
			bestFeasible = &options[i]
			break
		}
	}

	sugg := &Suggestion{
		Order:          *order,
		CurrentMachine: order.Machine,
	}

	switch {
	case current != nil && !current.Feasible && bestFeasible != nil && !bestFeasible.IsCurrent:
		// máquina atual estoura o prazo e existe alternativa que não
		sugg.Status = StatusCritical
		sugg.SuggestedMachine = bestFeasible.Machine
		sugg.Reason = fmt.Sprintf("Trocar para %s - máquina atual não cumpre o prazo de entrega", bestFeasible.Machine)

	case current != nil && bestFeasible != nil && !bestFeasible.IsCurrent &&
		current.TotalHours-bestFeasible.TotalHours > o.minSavingsHours:
		sugg.Status = StatusImprove
		sugg.SuggestedMachine = bestFeasible.Machine
		saved := current.TotalHours - bestFeasible.TotalHours
		sugg.Reason = fmt.Sprintf("Trocar para %s - reduz o tempo em %.1f h", bestFeasible.Machine, saved)

	default:
		sugg.Status = StatusKeep
		sugg.SuggestedMachine = order.Machine
		sugg.Reason = "Máquina atual já é a melhor opção"
	}

	for i := range options {
		options[i].IsSuggested = options[i].Machine == sugg.SuggestedMachine
	}
	sugg.Options = options
	sugg.TimeImprovement = improvement(current, sugg)

	return sugg
}

func improvement(current *MachineOption, sugg *Suggestion) Improvement {
	var suggested *MachineOption
	for i := range sugg.Options {
		if sugg.Options[i].IsSuggested {
			suggested = &sugg.Options[i]
		}
	}
	if current == nil || suggested == nil {
		return Improvement{}
	}

	saved := current.TotalHours - suggested.TotalHours
	pct := 0.0
	if current.TotalHours > 0 {
		pct = saved / current.TotalHours * 100
	}
	return Improvement{
		HasImprovement: saved > 0,
		TimeSavedHours: round2(saved),
		Percentage:     round1(pct),
	}
}

func (o *Optimizer) buildStatistics(result *Result, totalSaved, totalOriginal float64) Statistics {
	stats := Statistics{TotalOrders: len(result.Suggestions)}
	for _, s := range result.Suggestions {
		switch s.Status {
		case StatusCritical:
			stats.CriticalChanges++
		case StatusImprove:
			stats.Improvements++
		default:
			stats.KeepSame++
		}
	}
	stats.TotalChanges = stats.CriticalChanges + stats.Improvements

	if totalOriginal > 0 {
		stats.EfficiencyGain = round1(totalSaved / totalOriginal * 100)
	}

	if len(result.MachineLoads) > 0 {
		loads := make([]float64, 0, len(result.MachineLoads))
		for _, l := range result.MachineLoads {
			loads = append(loads, l)
		}
		stats.MeanMachineLoad = round2(stat.Mean(loads, nil))
	}

	return stats
}

// ApplySuggestions regrava a máquina dos pedidos cuja sugestão não é
// "keep", atualizando também os tempos unitários a partir do cadastro da
// máquina de destino. Não recalcula plano nenhum: quem quiser um
// cronograma comprometido gera de novo.
func (o *Optimizer) ApplySuggestions(ctx context.Context, orders []*storage.Order, suggestions []*Suggestion) ([]*storage.Order, int, error) {
	const op = "service.optimizer.ApplySuggestions"

	products, err := o.storage.GetAllProducts(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	capability := buildCapability(products)

	byID := make(map[string]*Suggestion, len(suggestions))
	for _, s := range suggestions {
		byID[s.Order.ID] = s
	}

	updated := make([]*storage.Order, 0, len(orders))
	changed := 0

	for _, order := range orders {
		clone := *order
		s := byID[order.ID]
		if s != nil && s.Status != StatusKeep && s.SuggestedMachine != order.Machine {
			clone.Machine = s.SuggestedMachine
			if p := lookupProduct(capability, s.SuggestedMachine, order.ProductRef); p != nil {
				clone.ProductionTime = p.ProductionTime
				clone.AssemblyTime = p.AssemblyTime
				clone.SecondaryAssembly = p.SecondaryAssembly
				clone.SecondaryAssemblyTime = p.SecondaryAssemblyTime
			}
			changed++
		}
		updated = append(updated, &clone)
	}

	return updated, changed, nil
}

// buildCapability indexa o catálogo por máquina e referência; tanto a
// referência principal quanto a referência/máquina servem de chave.
func buildCapability(products []*storage.Product) map[string]map[string]*storage.Product {
	capability := make(map[string]map[string]*storage.Product)
	for _, p := range products {
		refs := capability[p.Machine]
		if refs == nil {
			refs = make(map[string]*storage.Product)
			capability[p.Machine] = refs
		}
		if p.Reference != "" {
			refs[p.Reference] = p
		}
		if p.MachineRef != "" {
			refs[p.MachineRef] = p
		}
	}
	return capability
}

func lookupProduct(capability map[string]map[string]*storage.Product, machine, ref string) *storage.Product {
	refs := capability[machine]
	if refs == nil {
		return nil
	}
	return refs[ref]
}

func currentHours(s *Suggestion) float64 {
	for i := range s.Options {
		if s.Options[i].IsCurrent {
			return s.Options[i].TotalHours
		}
	}
	return 0
}

func suggestedHours(s *Suggestion) float64 {
	for i := range s.Options {
		if s.Options[i].IsSuggested {
			return s.Options[i].TotalHours
		}
	}
	return 0
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
