package storage

// Product é a referência de produto cadastrada por máquina; a presença
// do registro define a capacidade da máquina de produzir a referência,
// com os tempos específicos dela.
type Product struct {
	Machine               string  `json:"maquina"`
	MachineRef            string  `json:"referencia_maquina"`
	Reference             string  `json:"referencia"`
	ProductionTime        float64 `json:"tempo_producao"`
	AssemblyTime          float64 `json:"tempo_montagem"`
	SpoolTurns            int     `json:"voltas_espula"`
	OutputPerMinute       float64 `json:"producao_por_minuto"`
	Color                 string  `json:"cor"`
	Width                 float64 `json:"largura"`
	SecondaryAssembly     bool    `json:"montagem_2x2"`
	SecondaryAssemblyTime float64 `json:"tempo_montagem_2x2"`
}
