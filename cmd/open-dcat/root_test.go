package main

import "testing"

func TestRootCommand_RegistersCommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"migrate", "datasource", "discover", "profile", "freshness", "export", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("%s command not registered: cmd=%v err=%v", name, cmd, err)
		}
	}
}

func TestDatasourceCommand_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"datasource", "add"},
		{"datasource", "list"},
		{"datasource", "delete"},
		{"datasource", "test"},
	} {
		cmd, _, err := rootCmd.Find(args)
		if err != nil || cmd == nil || cmd.Name() != args[1] {
			t.Fatalf("%v command not registered: cmd=%v err=%v", args, cmd, err)
		}
	}
}
