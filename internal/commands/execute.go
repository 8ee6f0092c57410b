package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Checkin func(CheckinArgs) (Result, error)
	Plan    func(PlanArgs) (Result, error)
	Done    func(TargetArgs) (Result, error)
	Steps   func(TargetArgs) (Result, error)
	Key     func(KeyArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeCheckin:
		if handlers.Checkin == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Checkin(*cmd.Checkin)
	case TypePlan:
		if handlers.Plan == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Plan(*cmd.Plan)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeSteps:
		if handlers.Steps == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Steps(*cmd.Steps)
	case TypeKey:
		if handlers.Key == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Key(*cmd.Key)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
