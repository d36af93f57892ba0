package rules

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de regras comerciais
var (
	// Erros de validação
	ErrInvalidMultiplier   = errors.New("multiplicador de fase inválido")
	ErrInvalidPayout       = errors.New("taxa de payout inválida")
	ErrInvalidBonusPerLead = errors.New("comissão por lead inválida")
	ErrSub1Required        = errors.New("sub1 é obrigatório")

	// Erros de banco de dados
	ErrFetchRules = errors.New("erro ao carregar regras do banco de dados")
	ErrSaveRules  = errors.New("erro ao salvar regras no banco de dados")
)

// RuleError é um erro com contexto adicional para regras
type RuleError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Sub1    string // Sub1 envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *RuleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *RuleError) Unwrap() error {
	return e.Err
}

// NewRuleError cria um novo RuleError
func NewRuleError(err error, code string, details string) *RuleError {
	return &RuleError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
