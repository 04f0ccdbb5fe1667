package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
	"github.com/flmvela/gemeos/storage/database"
)

var (
	isTerminalFunc = term.IsTerminal  // mockable
	migrateFunc    = database.Migrate // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")

	// cliPerson is who imports run from the command line are attributed to.
	cliPerson = core.Person{ID: "admin-cli", Name: "admin CLI", Roles: []string{core.RoleAdmin}}
)

// objectReader reads whole objects out of a bucket, eg. gs://bucket/outline.md
type objectReader interface {
	ReadObject(ctx context.Context, uri string) ([]byte, error)
}

type commandLine struct {
	db         *sqlx.DB
	domainSvc  domain.ServiceInterface
	conceptSvc concept.ServiceInterface
	validate   *validator.Validate
	openBucket func(ctx context.Context) (objectReader, error)

	in  io.Reader
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate [up|down|redo] - run database migrations")
	fmt.Fprintln(cli.out, "  adddomain -name NAME [-description TEXT] - create a domain")
	fmt.Fprintln(cli.out, "  import -domain ID (-file PATH | -gcs gs://BUCKET/OBJECT) [-approve] - import an outline of concepts")
	fmt.Fprintln(cli.out, "  checkdup -domain ID -name NAME [-threshold F] - check a concept name for duplicates")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addDomainCmd := cli.newFlagSet("adddomain")
	addDomainName := addDomainCmd.String("name", "", "The domain name, eg. \"Jazz Theory\".")
	addDomainDesc := addDomainCmd.String("description", "", "An optional description.")

	importCmd := cli.newFlagSet("import")
	importDomain := importCmd.String("domain", "", "The ID of the domain to import into.")
	importFile := importCmd.String("file", "", "Path of the outline file.")
	importGCS := importCmd.String("gcs", "", "gs:// URI of the outline object.")
	importApprove := importCmd.Bool("approve", false, "Insert concepts as approved instead of suggested.")

	checkDupCmd := cli.newFlagSet("checkdup")
	checkDupDomain := checkDupCmd.String("domain", "", "The ID of the domain to check against.")
	checkDupName := checkDupCmd.String("name", "", "The concept name to check.")
	checkDupThreshold := checkDupCmd.Float64("threshold", 0, "Similarity threshold in (0, 1]; the configured one by default.")

	switch args[1] {
	case "migrate":
		command := "up"
		if len(args) > 2 {
			command = args[2]
		}
		return migrateFunc(cli.db, command)

	case "adddomain":
		if err := addDomainCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addDomainName == "" {
			addDomainCmd.Usage()
			return errHelp
		}
		return cli.addDomain(ctx, domain.NewDomain{Name: *addDomainName, Description: *addDomainDesc})

	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importDomain == "" || (*importFile == "") == (*importGCS == "") {
			importCmd.Usage()
			return errHelp
		}
		return cli.importOutline(ctx, *importDomain, *importFile, *importGCS, *importApprove)

	case "checkdup":
		if err := checkDupCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *checkDupDomain == "" || *checkDupName == "" {
			checkDupCmd.Usage()
			return errHelp
		}
		return cli.checkDuplicate(ctx, concept.DuplicateCheckRequest{
			DomainID:  *checkDupDomain,
			Name:      *checkDupName,
			Threshold: *checkDupThreshold,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) addDomain(ctx context.Context, nd domain.NewDomain) error {
	if err := nd.Validate(cli.validate, cli.domainSvc); err != nil {
		return err
	}
	dom, err := cli.domainSvc.Create(ctx, nd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created domain %q: %s\n", dom.Name, dom.ID)
	return nil
}

func (cli *commandLine) readOutline(ctx context.Context, file, uri string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		return string(data), err
	}
	bucket, err := cli.openBucket(ctx)
	if err != nil {
		return "", fmt.Errorf("opening bucket: %w", err)
	}
	if closer, ok := bucket.(io.Closer); ok {
		defer closer.Close()
	}
	data, err := bucket.ReadObject(ctx, uri)
	return string(data), err
}

func (cli *commandLine) importOutline(ctx context.Context, domainID, file, uri string, approve bool) error {
	text, err := cli.readOutline(ctx, file, uri)
	if err != nil {
		return err
	}
	if approve && isTerminalFunc(int(os.Stdin.Fd())) && !cli.confirm("Import as approved concepts? [y/N] ") {
		return errAborted
	}

	req := concept.ImportRequest{DomainID: domainID, RawText: text}
	res, err := cli.conceptSvc.Import(ctx, req, cliPerson, approve)
	cli.printResult(res)
	return err
}

func (cli *commandLine) confirm(prompt string) bool {
	fmt.Fprint(cli.out, prompt)
	answer, _ := bufio.NewReader(cli.in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (cli *commandLine) printResult(res concept.IngestionResult) {
	fmt.Fprintf(cli.out, "Inserted: %d\n", res.InsertedCount)
	fmt.Fprintf(cli.out, "Skipped: %d\n", len(res.SkippedDuplicates))
	for _, sk := range res.SkippedDuplicates {
		fmt.Fprintf(cli.out, "  - %s: %s\n", sk.Name, sk.Reason)
	}
}

func (cli *commandLine) checkDuplicate(ctx context.Context, req concept.DuplicateCheckRequest) error {
	if err := req.Validate(cli.validate); err != nil {
		return err
	}
	res, err := cli.conceptSvc.CheckDuplicate(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
