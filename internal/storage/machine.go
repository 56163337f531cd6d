package storage

// Machine identifica uma máquina pelo nome e a disponibilidade de
// horas por dia útil.
type Machine struct {
	Name        string  `json:"maquina"`
	HoursPerDay float64 `json:"disponibilidade_horas"`
}
