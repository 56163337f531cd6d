package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

func date(s string) time.Time {
	t, err := time.Parse(calendar.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func m1() []*storage.Machine {
	return []*storage.Machine{{Name: "M1", HoursPerDay: 8}}
}

func pedido(id, machine, due string, qty, bocas int, prod, mont float64) *storage.Order {
	return &storage.Order{
		ID:             id,
		Client:         "Cliente " + id,
		PurchaseOrder:  "OC-" + id,
		DueDate:        due,
		Machine:        machine,
		Bocas:          bocas,
		ProductRef:     "REF-" + id,
		Quantity:       qty,
		ProductionTime: prod,
		AssemblyTime:   mont,
	}
}

// Cenário de referência: feriado 25/12, M1 com 8h/dia, pedido de 100
// unidades em 2 bocas (1 min produção, 0.5 min montagem).
// 100*1/2 + 100*0.5 = 100 min = 1.67h -> 1 dia útil -> fim 24/12.
func TestGenerate_CenarioReferencia(t *testing.T) {
	cal := calendar.New()
	cal.AddHolidays([]string{"25/12/2024"})
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{pedido("p1", "M1", "30/12/2024", 100, 2, 1, 0.5)}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	it := plan.AllOrders[0]

	assert.InDelta(t, 100.0, it.TotalMinutes, 1e-9)
	assert.Equal(t, "23/12/2024", it.StartDate)
	assert.Equal(t, "24/12/2024", it.EndDate)
	assert.Equal(t, 1, it.WorkingDays)
	assert.Equal(t, UrgencyOK, it.Urgency)
	assert.Empty(t, plan.Alerts)
	assert.Empty(t, plan.Unassigned)
}

func TestGenerate_EntregaNoMesmoDiaNaoEhCritico(t *testing.T) {
	cal := calendar.New()
	cal.AddHolidays([]string{"25/12/2024"})
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{pedido("p1", "M1", "24/12/2024", 100, 2, 1, 0.5)}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	it := plan.AllOrders[0]
	assert.Equal(t, "24/12/2024", it.EndDate)
	// fim igual à entrega: limite, nunca crítico
	assert.NotEqual(t, UrgencyCritical, it.Urgency)
	assert.Zero(t, plan.Summary.CriticalOrders)
}

func TestGenerate_EntregaAntesDoInicio(t *testing.T) {
	cal := calendar.New()
	cal.AddHolidays([]string{"25/12/2024"})
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{pedido("p1", "M1", "23/12/2024", 100, 2, 1, 0.5)}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	assert.Equal(t, UrgencyCritical, plan.AllOrders[0].Urgency)
	assert.Equal(t, 1, plan.Summary.CriticalOrders)

	require.Len(t, plan.Alerts, 1)
	alert := plan.Alerts[0]
	assert.Equal(t, UrgencyCritical, alert.Type)
	assert.Equal(t, "Cliente p1", alert.Client)
	assert.Equal(t, "REF-p1", alert.Product)
	assert.Contains(t, alert.Message, "1 dia(s) após a data de entrega")
}

func TestGenerate_MargemPequenaGeraAtencao(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	// fim 24/12, entrega 26/12: margem de 2 dias
	orders := []*storage.Order{pedido("p1", "M1", "26/12/2024", 100, 2, 1, 0.5)}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	assert.Equal(t, UrgencyWarning, plan.AllOrders[0].Urgency)
	assert.Equal(t, 1, plan.Summary.WarningOrders)
	require.Len(t, plan.Alerts, 1)
	assert.Equal(t, UrgencyWarning, plan.Alerts[0].Type)
}

// A margem é medida em dias corridos, como no acompanhamento da
// fábrica: fim na sexta 27/12 com entrega 01/01 dá 5 dias de folga e
// fica OK, mesmo com o fim de semana no meio.
func TestGenerate_MargemAtravessandoFimDeSemana(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{pedido("p1", "M1", "01/01/2025", 100, 2, 1, 0.5)}
	plan := engine.Generate(orders, m1(), date("26/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	it := plan.AllOrders[0]
	assert.Equal(t, "27/12/2024", it.EndDate)
	assert.Equal(t, UrgencyOK, it.Urgency)
	assert.Empty(t, plan.Alerts)
}

// Propriedade: o fim é o início avançado em ceil((Q*P/B + Q*A)/60/H)
// dias úteis, sem feriados nem restrição de fim de semana no caminho.
func TestGenerate_DuracaoEmDiasUteis(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	tests := []struct {
		name    string
		qty     int
		bocas   int
		prod    float64
		mont    float64
		wantEnd string
	}{
		{"menos de um dia", 100, 2, 1, 0.5, "24/12/2024"},
		{"um dia exato", 480, 1, 1, 0, "24/12/2024"},
		{"dois dias e meio", 1200, 1, 1, 0, "26/12/2024"},
		{"montagem nao divide pelas bocas", 480, 4, 1, 1, "25/12/2024"}, // 120+480 min = 10h -> 2 dias
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders := []*storage.Order{pedido("p1", "M1", "31/12/2025", tc.qty, tc.bocas, tc.prod, tc.mont)}
			plan := engine.Generate(orders, m1(), date("23/12/2024"))

			require.Len(t, plan.AllOrders, 1)
			assert.Equal(t, "23/12/2024", plan.AllOrders[0].StartDate)
			assert.Equal(t, tc.wantEnd, plan.AllOrders[0].EndDate)
		})
	}
}

func TestGenerate_MontagemSecundariaEntraNaConta(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	o := pedido("p1", "M1", "31/12/2025", 60, 2, 2, 1)
	o.SecondaryAssembly = true
	o.SecondaryAssemblyTime = 1

	plan := engine.Generate([]*storage.Order{o}, m1(), date("23/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	// 60*2/2 + 60*(1+1) = 180 min
	assert.InDelta(t, 180.0, plan.AllOrders[0].TotalMinutes, 1e-9)
}

func TestGenerate_FilaSerializadaPorMaquina(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	// três pedidos de 1 dia cada na mesma máquina
	orders := []*storage.Order{
		pedido("p1", "M1", "26/12/2025", 480, 1, 1, 0),
		pedido("p2", "M1", "27/12/2025", 480, 1, 1, 0),
		pedido("p3", "M1", "30/12/2025", 480, 1, 1, 0),
	}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	mp := plan.MachinePlans["M1"]
	require.Len(t, mp.Orders, 3)

	prevEnd := ""
	for i, it := range mp.Orders {
		assert.Equal(t, i, it.Position)
		if i > 0 {
			// cada pedido começa no primeiro dia útil igual ou após o
			// fim do anterior
			assert.Equal(t, prevEnd, it.StartDate)
		}
		start, _ := calendar.ParseDate(it.StartDate)
		end, _ := calendar.ParseDate(it.EndDate)
		assert.False(t, end.Before(start))
		prevEnd = it.EndDate
	}
}

func TestGenerate_OrdenaPorEntregaComEmpateEstavel(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{
		pedido("tarde", "M1", "30/12/2025", 60, 1, 1, 0),
		pedido("cedo-a", "M1", "26/12/2025", 60, 1, 1, 0),
		pedido("cedo-b", "M1", "26/12/2025", 60, 1, 1, 0),
	}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	mp := plan.MachinePlans["M1"]
	require.Len(t, mp.Orders, 3)
	assert.Equal(t, "cedo-a", mp.Orders[0].ID)
	assert.Equal(t, "cedo-b", mp.Orders[1].ID)
	assert.Equal(t, "tarde", mp.Orders[2].ID)
}

func TestGenerate_MaquinaDesconhecidaNaoDerrubaOPlano(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	orders := []*storage.Order{
		pedido("p1", "M1", "30/12/2025", 60, 1, 1, 0),
		pedido("p2", "FANTASMA", "30/12/2025", 60, 1, 1, 0),
	}
	plan := engine.Generate(orders, m1(), date("23/12/2024"))

	assert.Len(t, plan.AllOrders, 1)
	require.Len(t, plan.Unassigned, 1)
	assert.Equal(t, "p2", plan.Unassigned[0].Order.ID)
	assert.Contains(t, plan.Unassigned[0].Reason, "FANTASMA")
}

func TestGenerate_DadosInvalidosViramNaoAlocados(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	semQuantidade := pedido("p1", "M1", "30/12/2025", 0, 1, 1, 0)
	semBocas := pedido("p2", "M1", "30/12/2025", 10, 0, 1, 0)
	dataRuim := pedido("p3", "M1", "quando-der", 10, 1, 1, 0)
	ok := pedido("p4", "M1", "30/12/2025", 10, 1, 1, 0)

	plan := engine.Generate([]*storage.Order{semQuantidade, semBocas, dataRuim, ok}, m1(), date("23/12/2024"))

	assert.Len(t, plan.AllOrders, 1)
	assert.Equal(t, "p4", plan.AllOrders[0].ID)
	assert.Len(t, plan.Unassigned, 3)
}

func TestGenerate_FimDeSemanaNuncaEntraNaJanela(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	// 2 dias a partir de sexta 27/12: pula 28/29 e termina terça 31/12
	orders := []*storage.Order{pedido("p1", "M1", "31/12/2025", 960, 1, 1, 0)}
	plan := engine.Generate(orders, m1(), date("27/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	assert.Equal(t, "27/12/2024", plan.AllOrders[0].StartDate)
	assert.Equal(t, "31/12/2024", plan.AllOrders[0].EndDate)
}

func TestGenerate_InicioEmDiaNaoUtilAvanca(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	// início no sábado: cursor vai para segunda 23/12
	orders := []*storage.Order{pedido("p1", "M1", "31/12/2025", 60, 1, 1, 0)}
	plan := engine.Generate(orders, m1(), date("21/12/2024"))

	require.Len(t, plan.AllOrders, 1)
	assert.Equal(t, "23/12/2024", plan.AllOrders[0].StartDate)
}

func TestGenerate_ResumoAgregaTodasAsMaquinas(t *testing.T) {
	cal := calendar.New()
	engine := NewEngine(cal, 3)

	machines := []*storage.Machine{
		{Name: "M1", HoursPerDay: 8},
		{Name: "M2", HoursPerDay: 6},
	}
	orders := []*storage.Order{
		pedido("p1", "M1", "30/12/2025", 480, 1, 1, 0), // 8h
		pedido("p2", "M2", "30/12/2025", 360, 1, 1, 0), // 6h
	}
	plan := engine.Generate(orders, machines, date("23/12/2024"))

	assert.Equal(t, 2, plan.Summary.TotalOrders)
	assert.Equal(t, 2, plan.Summary.TotalMachines)
	assert.InDelta(t, 14.0, plan.Summary.TotalHours, 1e-9)
	assert.Equal(t, 2, plan.Summary.OKOrders)
}
