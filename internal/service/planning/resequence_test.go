package planning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

func planoComDuasMaquinas(t *testing.T, engine *Engine) *Plan {
	t.Helper()

	machines := []*storage.Machine{
		{Name: "M1", HoursPerDay: 8},
		{Name: "M2", HoursPerDay: 8},
	}
	orders := []*storage.Order{
		pedido("a", "M1", "26/12/2025", 480, 1, 1, 0),
		pedido("b", "M1", "27/12/2025", 480, 1, 1, 0),
		pedido("c", "M1", "30/12/2025", 480, 1, 1, 0),
		pedido("x", "M2", "30/12/2025", 480, 1, 1, 0),
	}
	return engine.Generate(orders, machines, date("23/12/2024"))
}

func TestMove_ReposicionaERecalculaAFila(t *testing.T) {
	engine := NewEngine(calendar.New(), 3)
	plan := planoComDuasMaquinas(t, engine)

	err := engine.Move(plan, "a", 0, 2, "M1")
	require.NoError(t, err)

	mp := plan.MachinePlans["M1"]
	require.Len(t, mp.Orders, 3)

	// o pedido movido aparece exatamente uma vez, na posição de destino
	ids := []string{mp.Orders[0].ID, mp.Orders[1].ID, mp.Orders[2].ID}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
	assert.Equal(t, 2, mp.Orders[2].Position)

	// datas não decrescentes ao longo da fila
	for i := 1; i < len(mp.Orders); i++ {
		prev, _ := calendar.ParseDate(mp.Orders[i-1].StartDate)
		cur, _ := calendar.ParseDate(mp.Orders[i].StartDate)
		assert.False(t, cur.Before(prev))
	}

	// a fila recalculada parte da data de início do plano
	assert.Equal(t, "23/12/2024", mp.Orders[0].StartDate)
}

func TestMove_OutrasMaquinasFicamIntocadas(t *testing.T) {
	engine := NewEngine(calendar.New(), 3)
	plan := planoComDuasMaquinas(t, engine)

	antes, err := json.Marshal(plan.MachinePlans["M2"])
	require.NoError(t, err)

	require.NoError(t, engine.Move(plan, "c", 2, 0, "M1"))

	depois, err := json.Marshal(plan.MachinePlans["M2"])
	require.NoError(t, err)
	assert.Equal(t, antes, depois)
}

func TestMove_PosicaoForaDaFilaNaoMutaOPlano(t *testing.T) {
	engine := NewEngine(calendar.New(), 3)
	plan := planoComDuasMaquinas(t, engine)

	antes, err := json.Marshal(plan)
	require.NoError(t, err)

	tests := []struct {
		name string
		from int
		to   int
	}{
		{"destino alem do fim", 0, 3},
		{"destino negativo", 0, -1},
		{"origem alem do fim", 3, 0},
		{"origem negativa", -1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Move(plan, "a", tc.from, tc.to, "M1")

			var moveErr *InvalidMoveError
			require.ErrorAs(t, err, &moveErr)

			depois, mErr := json.Marshal(plan)
			require.NoError(t, mErr)
			assert.Equal(t, antes, depois, "plano deve ficar byte a byte igual")
		})
	}
}

func TestMove_IDDesatualizadoEhRejeitado(t *testing.T) {
	engine := NewEngine(calendar.New(), 3)
	plan := planoComDuasMaquinas(t, engine)

	antes, err := json.Marshal(plan)
	require.NoError(t, err)

	moveErr := engine.Move(plan, "b", 0, 1, "M1") // na posição 0 está "a"

	var invalid *InvalidMoveError
	require.ErrorAs(t, moveErr, &invalid)

	depois, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.Equal(t, antes, depois)
}

func TestMove_MaquinaForaDoPlanoEhRejeitada(t *testing.T) {
	engine := NewEngine(calendar.New(), 3)
	plan := planoComDuasMaquinas(t, engine)

	err := engine.Move(plan, "a", 0, 1, "M9")

	var invalid *InvalidMoveError
	require.ErrorAs(t, err, &invalid)
}
