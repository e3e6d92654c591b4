package logger

import "go.uber.org/zap"

// New builds the production logger, tagged with the service name.
func New(service string) (*zap.Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", service)), nil
}
