package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeCheckin Type = "checkin"
	TypePlan    Type = "plan"
	TypeDone    Type = "done"
	TypeSteps   Type = "steps"
	TypeKey     Type = "key"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const defaultResistance = 5

type AddArgs struct {
	Title      string
	Resistance int
	Minutes    int
	Due        *time.Time
}

type CheckinArgs struct {
	Mood   int
	Energy int
	Note   string
}

type PlanArgs struct {
	Date string
}

// TargetArgs names a task by id or id prefix.
type TargetArgs struct {
	Target string
}

type KeyArgs struct {
	Key string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Checkin *CheckinArgs
	Plan    *PlanArgs
	Done    *TargetArgs
	Steps   *TargetArgs
	Key     *KeyArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeCheckin:
		return parseCheckin(input, args)
	case TypePlan:
		return parsePlan(input, args)
	case TypeDone:
		target, err := parseTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: target}, nil
	case TypeSteps:
		target, err := parseTarget(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeSteps, Raw: input, Steps: target}, nil
	case TypeKey:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "key requires exactly one value"}
		}
		return Command{Type: TypeKey, Raw: input, Key: &KeyArgs{Key: args[0]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <title> [r:N] [m:N] [due:YYYY-MM-DD]". Option tokens may
// appear anywhere; the remaining words form the title.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{Resistance: defaultResistance}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			words = append(words, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "r":
			n, err := strconv.Atoi(value)
			if err != nil || n < model.MinResistance || n > model.MaxResistance {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "resistance must be 1-10"}
			}
			out.Resistance = n
		case "m":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "minutes must be a positive number"}
			}
			out.Minutes = n
		case "due":
			due, err := time.ParseInLocation(model.DateLayout, value, time.Local)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due must be YYYY-MM-DD"}
			}
			out.Due = &due
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseCheckin(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "checkin requires mood and energy (1-5)"}
	}
	mood, err := parseRating(args[0])
	if err != nil {
		return Command{}, err
	}
	energy, err := parseRating(args[1])
	if err != nil {
		return Command{}, err
	}
	note := strings.Join(args[2:], " ")
	return Command{Type: TypeCheckin, Raw: raw, Checkin: &CheckinArgs{Mood: mood, Energy: energy, Note: note}}, nil
}

func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < model.MinRating || n > model.MaxRating {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("rating %q must be 1-5", s)}
	}
	return n, nil
}

func parsePlan(raw string, args []string) (Command, error) {
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plan takes at most one date"}
	}
	date := ""
	if len(args) == 1 {
		if _, err := time.Parse(model.DateLayout, args[0]); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "date must be YYYY-MM-DD"}
		}
		date = args[0]
	}
	return Command{Type: TypePlan, Raw: raw, Plan: &PlanArgs{Date: date}}, nil
}

func parseTarget(head string, args []string) (*TargetArgs, error) {
	if len(args) != 1 {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", head)}
	}
	return &TargetArgs{Target: strings.ToLower(args[0])}, nil
}
