package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
	"github.com/flmvela/gemeos/services/logger"
	"github.com/flmvela/gemeos/storage/database/dummy"
	"github.com/flmvela/gemeos/tests"
)

const outline = `## Rhythm
- Swing Feel: Uneven eighth notes
  - Shuffle
`

type fakeBucket map[string]string

func (b fakeBucket) ReadObject(_ context.Context, uri string) ([]byte, error) {
	if data, ok := b[uri]; ok {
		return []byte(data), nil
	}
	return nil, errors.New("object not found")
}

type cliTest struct {
	name    string
	args    []string // without program name
	stdin   string
	wantErr error
	wantOut string
}

type testCLI struct {
	*commandLine
	out         *bytes.Buffer
	domRepo     domain.Repository
	conceptRepo concept.Repository
}

func setup(t *testing.T) testCLI {
	db, err := dummydb.Open()
	require.NoError(t, err)
	domRepo := dummydb.NewDomainRepository(db)
	conceptRepo := dummydb.NewConceptRepository(db)

	conf := &core.Config{AppName: "Gemeos"}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	concept.InitValidators(validate, translator)

	out := new(bytes.Buffer)
	cli := &commandLine{
		domainSvc:  domain.NewService(domRepo),
		conceptSvc: concept.NewService(concept.Options{Repo: conceptRepo, DomainRepo: domRepo, Logger: logger}),
		validate:   validate,
		openBucket: func(context.Context) (objectReader, error) {
			return fakeBucket{"gs://curricula/jazz.md": outline}, nil
		},
		in:  strings.NewReader(""),
		out: out,
	}
	return testCLI{commandLine: cli, out: out, domRepo: domRepo, conceptRepo: conceptRepo}
}

func (c testCLI) runTest(t *testing.T, tt cliTest) {
	t.Run(tt.name, func(t *testing.T) {
		c.out.Reset()
		c.in = strings.NewReader(tt.stdin)
		err := c.run(context.Background(), append([]string{"admin"}, tt.args...))
		if tt.wantErr != nil {
			assert.Equal(t, tt.wantErr, err)
		} else {
			assert.NoError(t, err)
		}
		if tt.wantOut != "" {
			assert.Contains(t, c.out.String(), tt.wantOut)
		}
	})
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	tests := []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "adddomain: no name", args: []string{"adddomain"}, wantErr: errHelp},
		{name: "import: no source", args: []string{"import", "-domain", "x"}, wantErr: errHelp},
		{name: "import: both sources", args: []string{"import", "-domain", "x", "-file", "a", "-gcs", "b"}, wantErr: errHelp},
		{name: "checkdup: no name", args: []string{"checkdup", "-domain", "x"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"checkdup", "-lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		cli.runTest(t, tt)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var got []string
	origMigrate := migrateFunc
	t.Cleanup(func() { migrateFunc = origMigrate })
	migrateFunc = func(_ *sqlx.DB, command string) error {
		got = append(got, command)
		return nil
	}

	cli.runTest(t, cliTest{name: "default", args: []string{"migrate"}})
	cli.runTest(t, cliTest{name: "down", args: []string{"migrate", "down"}})
	assert.Equal(t, []string{"up", "down"}, got)
}

func Test_commandLine_adddomain(t *testing.T) {
	cli := setup(t)
	cli.runTest(t, cliTest{name: "created", args: []string{"adddomain", "-name", " Jazz Theory "}, wantOut: `created domain "Jazz Theory"`})

	t.Run("name exists", func(t *testing.T) {
		err := cli.run(context.Background(), []string{"admin", "adddomain", "-name", "jazz theory"})
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, domain.ErrNameExists, vErr.Err)
	})

	doms, err := cli.domRepo.QueryDomains(context.Background())
	require.NoError(t, err)
	assert.Len(t, doms, 1)
}

func Test_commandLine_import(t *testing.T) {
	cli := setup(t)
	jazz := testutil.CreateDomain(t, cli.domRepo, "Jazz Theory")

	file := filepath.Join(t.TempDir(), "rhythm.md")
	require.NoError(t, os.WriteFile(file, []byte(outline), 0o600))

	origIsTerminal := isTerminalFunc
	isTerminalFunc = func(int) bool { return false }
	t.Cleanup(func() { isTerminalFunc = origIsTerminal })

	tests := []cliTest{
		{name: "from file", args: []string{"import", "-domain", jazz.ID, "-file", file}, wantOut: "Inserted: 3\nSkipped: 0\n"},
		{
			name: "from bucket, all duplicates", args: []string{"import", "-domain", jazz.ID, "-gcs", "gs://curricula/jazz.md"},
			wantOut: "Inserted: 0\nSkipped: 3\n  - Rhythm: Exact match\n",
		},
	}
	for _, tt := range tests {
		cli.runTest(t, tt)
	}

	t.Run("missing object", func(t *testing.T) {
		err := cli.run(context.Background(), []string{"admin", "import", "-domain", jazz.ID, "-gcs", "gs://curricula/lol.md"})
		assert.EqualError(t, err, "object not found")
	})

	t.Run("missing file", func(t *testing.T) {
		err := cli.run(context.Background(), []string{"admin", "import", "-domain", jazz.ID, "-file", filepath.Join(t.TempDir(), "lol")})
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unknown domain", func(t *testing.T) {
		err := cli.run(context.Background(), []string{"admin", "import", "-domain", "lol", "-file", file})
		assert.Error(t, err)
	})

	concepts, err := cli.conceptRepo.QueryConcepts(context.Background(), concept.QueryFilter{DomainID: jazz.ID}, nil)
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	for _, c := range concepts {
		assert.Equal(t, concept.StatusSuggested, c.Status)
	}
}

func Test_commandLine_import_approve(t *testing.T) {
	cli := setup(t)
	jazz := testutil.CreateDomain(t, cli.domRepo, "Jazz Theory")
	blues := testutil.CreateDomain(t, cli.domRepo, "Blues")

	origIsTerminal := isTerminalFunc
	isTerminalFunc = func(int) bool { return true }
	t.Cleanup(func() { isTerminalFunc = origIsTerminal })

	args := func(domainID string) []string {
		return []string{"import", "-domain", domainID, "-gcs", "gs://curricula/jazz.md", "-approve"}
	}
	cli.runTest(t, cliTest{name: "declined", args: args(jazz.ID), stdin: "n\n", wantErr: errAborted, wantOut: "Import as approved concepts?"})
	cli.runTest(t, cliTest{name: "confirmed", args: args(blues.ID), stdin: "yes\n", wantOut: "Inserted: 3"})

	ctx := context.Background()
	concepts, err := cli.conceptRepo.QueryConcepts(ctx, concept.QueryFilter{DomainID: jazz.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, concepts)

	concepts, err = cli.conceptRepo.QueryConcepts(ctx, concept.QueryFilter{DomainID: blues.ID}, nil)
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	assert.Equal(t, concept.StatusApproved, concepts[0].Status)
}

func Test_commandLine_checkdup(t *testing.T) {
	cli := setup(t)
	jazz := testutil.CreateDomain(t, cli.domRepo, "Jazz Theory")
	testutil.CreateConcept(t, cli.conceptRepo, jazz.ID, "Swing Feel", concept.StatusApproved)

	run := func(t *testing.T, args ...string) concept.DuplicateCheckResult {
		cli.out.Reset()
		require.NoError(t, cli.run(context.Background(), append([]string{"admin", "checkdup", "-domain", jazz.ID}, args...)))
		var res concept.DuplicateCheckResult
		require.NoError(t, json.Unmarshal(cli.out.Bytes(), &res))
		return res
	}

	t.Run("similar", func(t *testing.T) {
		res := run(t, "-name", "Swing Feeling")
		assert.True(t, res.IsDuplicate)
		require.Len(t, res.SimilarMatches, 1)
		assert.Equal(t, "Swing Feel", res.SimilarMatches[0].Name)
	})
	t.Run("strict threshold", func(t *testing.T) {
		res := run(t, "-name", "Swing Feeling", "-threshold", "0.99")
		assert.False(t, res.IsDuplicate)
	})
	t.Run("invalid threshold", func(t *testing.T) {
		err := cli.run(context.Background(), []string{"admin", "checkdup", "-domain", jazz.ID, "-name", "Swing", "-threshold", "2"})
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs))
	})
}
