package planning

import "fmt"

// ValidationError marca um pedido com dados inválidos (quantidade ou
// bocas não positivas, data malformada). Nunca aborta o lote: o pedido
// afetado vai para a lista de não alocados.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dado inválido em %s: %s", e.Field, e.Reason)
}

// ConfigurationError marca um pedido que referencia uma máquina (ou
// capacidade de produto) desconhecida no catálogo.
type ConfigurationError struct {
	Machine string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("máquina desconhecida: %s", e.Machine)
}

// InvalidMoveError aborta apenas a chamada de Move; o plano fica
// intocado.
type InvalidMoveError struct {
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("movimento inválido: %s", e.Reason)
}
