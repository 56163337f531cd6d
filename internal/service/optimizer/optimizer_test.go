package optimizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetMachines(ctx context.Context) ([]*storage.Machine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	machines, ok := args.Get(0).([]*storage.Machine)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.Machine, got %T", args.Get(0))
	}
	return machines, args.Error(1)
}

func (m *MockCatalog) GetAllProducts(ctx context.Context) ([]*storage.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	products, ok := args.Get(0).([]*storage.Product)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.Product, got %T", args.Get(0))
	}
	return products, args.Error(1)
}

func date(s string) time.Time {
	t, err := time.Parse(calendar.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Catálogo padrão: M1 e M2 produzem REF-A (M2 na metade do tempo), M3
// não tem capacidade para REF-A.
func catalogoPadrao() *MockCatalog {
	c := new(MockCatalog)
	c.On("GetMachines", mock.Anything).Return([]*storage.Machine{
		{Name: "M1", HoursPerDay: 8},
		{Name: "M2", HoursPerDay: 8},
		{Name: "M3", HoursPerDay: 8},
	}, nil)
	c.On("GetAllProducts", mock.Anything).Return([]*storage.Product{
		{Machine: "M1", Reference: "REF-A", ProductionTime: 2},
		{Machine: "M2", Reference: "REF-A", ProductionTime: 1},
		{Machine: "M3", Reference: "REF-B", ProductionTime: 1},
	}, nil)
	return c
}

func pedidoEm(machine, due string) *storage.Order {
	return &storage.Order{
		ID:             "p1",
		Client:         "ACME",
		DueDate:        due,
		Machine:        machine,
		Bocas:          1,
		ProductRef:     "REF-A",
		Quantity:       480,
		ProductionTime: 2, // tempos da máquina atual (M1)
	}
}

func TestSuggest_MelhoriaQuandoHaMaquinaMaisRapida(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	// M1: 960 min = 16h; M2: 480 min = 8h
	res, err := opt.Suggest(context.Background(), []*storage.Order{pedidoEm("M1", "31/12/2024")}, date("23/12/2024"))
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	s := res.Suggestions[0]
	assert.Equal(t, StatusImprove, s.Status)
	assert.Equal(t, "M1", s.CurrentMachine)
	assert.Equal(t, "M2", s.SuggestedMachine)
	assert.True(t, s.TimeImprovement.HasImprovement)
	assert.InDelta(t, 8.0, s.TimeImprovement.TimeSavedHours, 1e-9)
	assert.InDelta(t, 50.0, s.TimeImprovement.Percentage, 1e-9)

	assert.Equal(t, 1, res.Statistics.Improvements)
	assert.InDelta(t, 50.0, res.Statistics.EfficiencyGain, 1e-9)
}

func TestSuggest_NuncaPropoeMaquinaSemCapacidade(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	res, err := opt.Suggest(context.Background(), []*storage.Order{pedidoEm("M1", "31/12/2024")}, date("23/12/2024"))
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	for _, o := range res.Suggestions[0].Options {
		assert.NotEqual(t, "M3", o.Machine)
	}
	assert.NotEqual(t, "M3", res.Suggestions[0].SuggestedMachine)
}

func TestSuggest_CriticoQuandoMaquinaAtualEstouraOPrazo(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	// M1 termina 25/12 (2 dias úteis), M2 termina 24/12: entrega 24/12
	res, err := opt.Suggest(context.Background(), []*storage.Order{pedidoEm("M1", "24/12/2024")}, date("23/12/2024"))
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	s := res.Suggestions[0]
	assert.Equal(t, StatusCritical, s.Status)
	assert.Equal(t, "M2", s.SuggestedMachine)
	assert.Equal(t, 1, res.Statistics.CriticalChanges)

	var current, suggested *MachineOption
	for i := range s.Options {
		if s.Options[i].IsCurrent {
			current = &s.Options[i]
		}
		if s.Options[i].IsSuggested {
			suggested = &s.Options[i]
		}
	}
	require.NotNil(t, current)
	require.NotNil(t, suggested)
	assert.False(t, current.Feasible)
	assert.True(t, suggested.Feasible)
}

func TestSuggest_MantemQuandoGanhoAbaixoDoMinimo(t *testing.T) {
	// ganho de 8h fica abaixo do mínimo configurado de 10h
	opt := New(catalogoPadrao(), calendar.New(), 10)

	res, err := opt.Suggest(context.Background(), []*storage.Order{pedidoEm("M1", "31/12/2024")}, date("23/12/2024"))
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, StatusKeep, res.Suggestions[0].Status)
	assert.Equal(t, "M1", res.Suggestions[0].SuggestedMachine)
	assert.Equal(t, 1, res.Statistics.KeepSame)
	assert.Zero(t, res.Statistics.EfficiencyGain)
}

func TestSuggest_MantemQuandoAtualJaEhAMelhor(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	o := pedidoEm("M2", "31/12/2024")
	o.ProductionTime = 1 // tempos da M2

	res, err := opt.Suggest(context.Background(), []*storage.Order{o}, date("23/12/2024"))
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, StatusKeep, res.Suggestions[0].Status)
	assert.Equal(t, "Máquina atual já é a melhor opção", res.Suggestions[0].Reason)
}

func TestSuggest_PedidoInvalidoVaiParaErros(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	semQuantidade := pedidoEm("M1", "31/12/2024")
	semQuantidade.Quantity = 0
	semBocas := pedidoEm("M1", "31/12/2024")
	semBocas.ID = "p2"
	semBocas.Bocas = 0

	res, err := opt.Suggest(context.Background(),
		[]*storage.Order{semQuantidade, semBocas}, date("23/12/2024"))
	require.NoError(t, err)

	// pedido inválido não vira sugestão de zero horas
	assert.Empty(t, res.Suggestions)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Reason, "quantidade")
	assert.Contains(t, res.Errors[1].Reason, "bocas")
}

func TestSuggest_MaquinaDesconhecidaVaiParaErros(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	res, err := opt.Suggest(context.Background(), []*storage.Order{pedidoEm("FANTASMA", "31/12/2024")}, date("23/12/2024"))
	require.NoError(t, err)

	assert.Empty(t, res.Suggestions)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "FANTASMA")
}

func TestSuggest_ProdutoSemCapacidadeEmNenhumaMaquina(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	o := pedidoEm("M3", "31/12/2024")
	o.ProductRef = "REF-X" // referência fora do catálogo inteiro
	res, err := opt.Suggest(context.Background(), []*storage.Order{o}, date("23/12/2024"))
	require.NoError(t, err)

	// a máquina atual entra com os tempos do próprio pedido; nenhuma
	// alternativa tem capacidade, então mantém
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, StatusKeep, res.Suggestions[0].Status)
	assert.Len(t, res.Suggestions[0].Options, 1)
}

func TestApplySuggestions_TrocaSoOQueNaoEhKeep(t *testing.T) {
	opt := New(catalogoPadrao(), calendar.New(), 0.5)

	orders := []*storage.Order{
		pedidoEm("M1", "31/12/2024"),
		{ID: "p2", Machine: "M2", ProductRef: "REF-A", Quantity: 10, Bocas: 1, ProductionTime: 1, DueDate: "31/12/2024"},
	}
	suggestions := []*Suggestion{
		{Order: *orders[0], Status: StatusImprove, SuggestedMachine: "M2"},
		{Order: *orders[1], Status: StatusKeep, SuggestedMachine: "M2"},
	}

	updated, changed, err := opt.ApplySuggestions(context.Background(), orders, suggestions)
	require.NoError(t, err)

	assert.Equal(t, 1, changed)
	assert.Equal(t, "M2", updated[0].Machine)
	// tempos atualizados a partir do cadastro da máquina de destino
	assert.InDelta(t, 1.0, updated[0].ProductionTime, 1e-9)
	assert.Equal(t, "M2", updated[1].Machine)

	// os pedidos originais não são mutados
	assert.Equal(t, "M1", orders[0].Machine)
}
