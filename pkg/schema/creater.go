package schema

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/sr"
)

// SchemaIdentifier resolves the registry id for a subject's schema.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject, avroSchemaText string) (int, error)
}

var _ SchemaIdentifier = (*SchemaCreater)(nil)

// SchemaCreater registers the schema under the subject if the registry
// does not know it yet and returns its id.
type SchemaCreater struct {
	cl *sr.Client
}

func NewSchemaCreater(cl *sr.Client) SchemaCreater {
	return SchemaCreater{cl}
}

func (c SchemaCreater) DetermineID(
	ctx context.Context, subject, avroSchemaText string,
) (int, error) {
	const op = "SchemaCreater.DetermineID"

	ss, err := c.cl.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
