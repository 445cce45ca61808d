package supabase

import (
	"fmt"
	"os"

	"github.com/supabase-community/functions-go"
	"github.com/supabase-community/gotrue-go"
	storage_go "github.com/supabase-community/storage-go"
)

// Client agrupa os clientes dos serviços gerenciados: autenticação, blob
// store e funções de borda. A persistência relacional fica fora daqui, via
// GORM direto no Postgres.
type Client struct {
	Auth      gotrue.Client
	Storage   *storage_go.Client
	Functions *functions.Client
}

// NewFromEnv monta os clientes a partir das variáveis de ambiente
func NewFromEnv() (*Client, error) {
	url := os.Getenv("SUPABASE_URL")
	anonKey := os.Getenv("SUPABASE_ANON_KEY")
	projectRef := os.Getenv("SUPABASE_PROJECT_REF")
	if url == "" || anonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be defined in the environment")
	}

	// a chave de serviço dá ao blob store acesso de escrita ao bucket
	serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if serviceKey == "" {
		serviceKey = anonKey
	}

	auth := gotrue.New(projectRef, anonKey).WithCustomGoTrueURL(url + "/auth/v1")

	return &Client{
		Auth:      auth,
		Storage:   storage_go.NewClient(url+"/storage/v1", serviceKey, nil),
		Functions: functions.NewClient(url+"/functions/v1", anonKey, nil),
	}, nil
}
