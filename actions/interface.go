package actions

import (
	"github.com/relloyd/airpipe/rdbms/shared"
)

// ConnectionLoader fetches full connection details for a logical connection name,
// either from the connections config file or from the environment in twelveFactorMode.
type ConnectionLoader interface {
	LoadConnection(connectionName string) (shared.ConnectionDetails, error)
}

type ConnectionGetterSetter interface {
	Get(key string, out interface{}) error
	Set(key string, val interface{}) error
	Delete(key string) error
}

type ConnectionValidator interface {
	Parse() error
	GetMap(m map[string]string) map[string]string
	GetScheme() (string, error)
}
