package commands

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/modeler/internal/cli/config"
	"github.com/conduit-lang/modeler/internal/design/element"
	"github.com/conduit-lang/modeler/internal/design/loader"
)

//go:embed templates/*
var templatesFS embed.FS

// scaffold holds the values rendered into a new project
type scaffold struct {
	ProjectName string
	Module      string
	Lifecycle   bool
}

// validateProjectName validates project name with security checks
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path")
	}

	// Only allow alphanumeric, dash, and underscore
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, name)
	if !matched {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}

	return nil
}

// NewNewCommand creates the new command
func NewNewCommand(root *rootOptions) *cobra.Command {
	var (
		interactive bool
		values      = scaffold{Module: loader.DefaultModule, Lifecycle: true}
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new modeling project",
		Long: `Create a new project with a modeler.yml and a sample design.

The project directory is created below --dir. If no project name is
provided, you will be prompted to enter one.

Examples:
  modeler new shop
  modeler new shop --module sales --lifecycle=false
  modeler new --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				values.ProjectName = args[0]
			}
			if interactive || values.ProjectName == "" {
				if err := askScaffold(&values, interactive); err != nil {
					return err
				}
			}
			return runNew(cmd, root, values)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Interactive project setup with prompts")
	cmd.Flags().StringVarP(&values.Module, "module", "m", values.Module, "Module of the sample design")
	cmd.Flags().BoolVar(&values.Lifecycle, "lifecycle", values.Lifecycle, "Include a sample transition category")

	return cmd
}

func askScaffold(values *scaffold, interactive bool) error {
	nameValidator := survey.ComposeValidators(survey.Required, func(ans interface{}) error {
		return validateProjectName(fmt.Sprint(ans))
	})

	if !interactive {
		prompt := &survey.Input{Message: "Project name:"}
		return survey.AskOne(prompt, &values.ProjectName, survey.WithValidator(nameValidator))
	}

	questions := []*survey.Question{
		{
			Name:     "projectName",
			Prompt:   &survey.Input{Message: "Project name:", Default: values.ProjectName},
			Validate: nameValidator,
		},
		{
			Name:   "module",
			Prompt: &survey.Input{Message: "Module:", Default: values.Module},
			Validate: func(ans interface{}) error {
				return element.ValidateName("module", fmt.Sprint(ans))
			},
		},
		{
			Name: "lifecycle",
			Prompt: &survey.Confirm{
				Message: "Include a sample transition category?",
				Default: values.Lifecycle,
			},
		},
	}

	answers := struct {
		ProjectName string
		Module      string
		Lifecycle   bool
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	values.ProjectName = answers.ProjectName
	values.Module = answers.Module
	values.Lifecycle = answers.Lifecycle
	return nil
}

func runNew(cmd *cobra.Command, root *rootOptions, values scaffold) error {
	out := cmd.OutOrStdout()
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	promptColor := color.New(color.FgYellow)

	values.ProjectName = strings.TrimSpace(values.ProjectName)
	if err := validateProjectName(values.ProjectName); err != nil {
		return err
	}
	if err := element.ValidateName("module", values.Module); err != nil {
		return err
	}

	projectPath := filepath.Join(root.dir, values.ProjectName)
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %s already exists", values.ProjectName)
	}

	infoColor.Fprintf(out, "Creating project: %s\n\n", values.ProjectName)

	files := []struct {
		dest string
		tmpl string
	}{
		{config.FileName, "templates/modeler.yml.tmpl"},
		{filepath.Join("design", values.Module+".yml"), "templates/design.yml.tmpl"},
	}

	for _, f := range files {
		content, err := render(f.tmpl, values)
		if err != nil {
			return err
		}

		destPath := filepath.Join(projectPath, f.dest)
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(destPath), err)
		}
		if err := os.WriteFile(destPath, content, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", destPath, err)
		}
		fmt.Fprintf(out, "  created %s\n", f.dest)
	}

	fmt.Fprintln(out)
	successColor.Fprintf(out, "✓ Created project: %s\n\n", values.ProjectName)

	promptColor.Fprintln(out, "Get started:")
	fmt.Fprintf(out, "  cd %s\n", values.ProjectName)
	fmt.Fprintln(out, "  modeler validate")
	fmt.Fprintln(out, "  modeler describe")

	return nil
}

func render(name string, values scaffold) ([]byte, error) {
	content, err := templatesFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	tmpl, err := template.New(filepath.Base(name)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
