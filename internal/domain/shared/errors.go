package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Block-related errors

type BlockError struct {
	*DomainError
	BlockID string
}

func NewBlockError(blockID, message string) *BlockError {
	return &BlockError{DomainError: &DomainError{Message: message}, BlockID: blockID}
}

type BlockNotFoundError struct {
	*BlockError
}

func NewBlockNotFoundError(blockID string) *BlockNotFoundError {
	return &BlockNotFoundError{BlockError: NewBlockError(blockID, fmt.Sprintf("block %s not found", blockID))}
}

type EmptyBlockError struct {
	*BlockError
}

func NewEmptyBlockError(blockID string) *EmptyBlockError {
	return &EmptyBlockError{BlockError: NewBlockError(blockID, fmt.Sprintf("block %s has no crafting units", blockID))}
}

// Facts errors

type FactsError struct {
	*DomainError
	Source string
}

func NewFactsError(source, message string) *FactsError {
	return &FactsError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", source, message)},
		Source:      source,
	}
}
