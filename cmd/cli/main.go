package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gitclassrooms/classroom-provisioner/internal/config"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/github"
	"github.com/gitclassrooms/classroom-provisioner/internal/provisioner"
	"github.com/gitclassrooms/classroom-provisioner/internal/reporter"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage/postgres"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage/sqlite"
)

var (
	cfgFile    string
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "classroom",
	Short: "GitHub classroom provisioning tool",
	Long: `A CLI tool for provisioning and tearing down classroom submission
repositories on GitHub.

Submission repositories are created inside a classroom organization,
shared with the submitting student or group, optionally seeded with
starter code, and recorded locally for reporting.`,
}

var provisionCmd = &cobra.Command{
	Use:   "provision [assignment-id] [user-login]",
	Short: "Provision a submission repository for a user",
	Long:  `Create a submission repository for one user on an individual assignment.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runProvision,
}

var provisionGroupCmd = &cobra.Command{
	Use:   "provision-group [group-assignment-id] [group-id]",
	Short: "Provision a submission repository for a group",
	Long:  `Create a submission repository for one group on a group assignment.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runProvisionGroup,
}

var destroyCmd = &cobra.Command{
	Use:   "destroy [record-id]",
	Short: "Tear down an individual submission repository",
	Long:  `Delete the remote repository and remove the local submission record.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDestroy,
}

var destroyGroupCmd = &cobra.Command{
	Use:   "destroy-group [record-id]",
	Short: "Tear down a group submission repository",
	Long:  `Delete the remote repository and team and remove the local submission record.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDestroyGroup,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show provisioning reports",
}

var showAssignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Show submission counts for all assignments",
	Args:  cobra.NoArgs,
	RunE:  runShowAssignments,
}

var showRosterCmd = &cobra.Command{
	Use:   "roster [assignment-id]",
	Short: "Show the submission roster for an assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRoster,
}

var verifyTokenCmd = &cobra.Command{
	Use:   "verify-token [token]",
	Short: "Verify a user's OAuth token against the configured application",
	Long:  `Check that a token is a live authorization of the configured GitHub OAuth application.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVerifyToken,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(provisionGroupCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(destroyGroupCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(verifyTokenCmd)
	showCmd.AddCommand(showAssignmentsCmd)
	showCmd.AddCommand(showRosterCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

// creatorClient builds an API client authenticated as the assignment creator
func creatorClient(ctx context.Context, store storage.Storage, creatorID string) (github.APIClient, error) {
	creator, err := store.GetUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Token == "" {
		return nil, fmt.Errorf("assignment creator %s has no access token", creator.Login)
	}
	return github.NewClient(creator.Token), nil
}

func runProvision(cmd *cobra.Command, args []string) error {
	assignmentID, login := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	assignment, err := store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to load assignment: %w", err)
	}

	invitee, err := store.GetUserByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", login, err)
	}

	api, err := creatorClient(ctx, store, assignment.CreatorID)
	if err != nil {
		return err
	}

	fmt.Printf("Provisioning submission repository for %s on %s...\n", invitee.Login, assignment.Title)

	builder := provisioner.NewAssignmentRepoBuilder(store, api)
	record, err := builder.Build(ctx, assignment, invitee)
	if err != nil {
		if apperrors.IsQuotaExceeded(err) {
			return fmt.Errorf("cannot create private repository: %w", err)
		}
		return fmt.Errorf("provisioning failed: %w", err)
	}

	fmt.Printf("Created repository %d (record %s)\n", record.GithubRepoID, record.ID)
	return nil
}

func runProvisionGroup(cmd *cobra.Command, args []string) error {
	assignmentID, groupID := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	assignment, err := store.GetGroupAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to load group assignment: %w", err)
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to load group: %w", err)
	}

	api, err := creatorClient(ctx, store, assignment.CreatorID)
	if err != nil {
		return err
	}

	fmt.Printf("Provisioning submission repository for %s on %s...\n", group.Title, assignment.Title)

	builder := provisioner.NewGroupAssignmentRepoBuilder(store, api)
	record, err := builder.Build(ctx, assignment, group)
	if err != nil {
		if apperrors.IsQuotaExceeded(err) {
			return fmt.Errorf("cannot create private repository: %w", err)
		}
		return fmt.Errorf("provisioning failed: %w", err)
	}

	fmt.Printf("Created repository %d with team %d (record %s)\n", record.GithubRepoID, record.GithubTeamID, record.ID)
	return nil
}

func runDestroy(cmd *cobra.Command, args []string) error {
	recordID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	record, err := store.GetAssignmentRepo(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	assignment, err := store.GetAssignment(ctx, record.AssignmentID)
	if err != nil {
		return fmt.Errorf("failed to load assignment: %w", err)
	}

	api, err := creatorClient(ctx, store, assignment.CreatorID)
	if err != nil {
		return err
	}

	builder := provisioner.NewAssignmentRepoBuilder(store, api)
	if err := builder.Destroy(ctx, record); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}

	fmt.Printf("Removed submission record %s\n", record.ID)
	return nil
}

func runDestroyGroup(cmd *cobra.Command, args []string) error {
	recordID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	record, err := store.GetGroupAssignmentRepo(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	assignment, err := store.GetGroupAssignment(ctx, record.GroupAssignmentID)
	if err != nil {
		return fmt.Errorf("failed to load group assignment: %w", err)
	}

	api, err := creatorClient(ctx, store, assignment.CreatorID)
	if err != nil {
		return err
	}

	builder := provisioner.NewGroupAssignmentRepoBuilder(store, api)
	if err := builder.Destroy(ctx, record); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}

	fmt.Printf("Removed submission record %s\n", record.ID)
	return nil
}

func runShowAssignments(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	rep := reporter.NewReporter(store)
	summaries, err := rep.ListAssignmentSummaries(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get summaries: %w", err)
	}

	if outputJSON {
		return printJSON(summaries)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Assignment", "Slug", "Private", "Submissions"})
	for _, s := range summaries {
		table.Append([]string{
			s.Title,
			s.Slug,
			fmt.Sprintf("%t", s.Private),
			fmt.Sprintf("%d", s.Submissions),
		})
	}
	table.Render()

	return nil
}

func runShowRoster(cmd *cobra.Command, args []string) error {
	assignmentID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	rep := reporter.NewReporter(store)
	roster, err := rep.AssignmentRoster(context.Background(), assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get roster: %w", err)
	}

	if outputJSON {
		return printJSON(roster)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Login", "Repository ID", "Created"})
	for _, entry := range roster {
		table.Append([]string{
			entry.Login,
			fmt.Sprintf("%d", entry.GithubRepoID),
			entry.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()

	return nil
}

func runVerifyToken(cmd *cobra.Command, args []string) error {
	token := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.GithubClientID == "" || cfg.GithubClientSecret == "" {
		return fmt.Errorf("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set")
	}

	client := github.NewAppClient(cfg.GithubClientID, cfg.GithubClientSecret)
	ok, err := client.CheckTokenAuthorization(context.Background(), cfg.GithubClientID, token)
	if err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}

	if !ok {
		fmt.Println("Token is not authorized for this application")
		os.Exit(1)
	}

	fmt.Println("Token is valid")
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
