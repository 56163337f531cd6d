package storage

// Order é um pedido do catálogo. O motor de planejamento só lê; quem
// grava é o fluxo de cadastro.
type Order struct {
	ID                    string  `json:"id"`
	Client                string  `json:"cliente"`
	PurchaseOrder         string  `json:"ordem_compra"`
	DueDate               string  `json:"data_entrega"` // DD/MM/YYYY
	Machine               string  `json:"maquina"`
	Bocas                 int     `json:"bocas"`
	ProductRef            string  `json:"produto"`
	Quantity              int     `json:"quantidade"`
	ProductionTime        float64 `json:"tempo_producao"` // minutos por unidade
	AssemblyTime          float64 `json:"tempo_montagem"` // minutos por unidade
	SecondaryAssembly     bool    `json:"montagem_2x2"`
	SecondaryAssemblyTime float64 `json:"tempo_montagem_2x2"`
}
