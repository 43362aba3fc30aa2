package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

// NewAPICmd creates the api command for raw API access.
func NewAPICmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "api <verb> <path>",
		Short: "Raw API access",
		Long:  "Make raw requests against any Squarespace endpoint, with the same token refresh and retry behavior the MCP tools get. Useful for endpoints without a dedicated tool.",
	}

	cmd.PersistentFlags().StringVarP(&query, "query", "q", "", "jq expression applied to the response body")

	cmd.AddCommand(
		newAPIGetCmd(&query),
		newAPIPostCmd(&query),
		newAPIPutCmd(&query),
		newAPIDeleteCmd(&query),
	)

	return cmd
}

func newAPIGetCmd(query *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "GET request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			client, err := app.Client()
			if err != nil {
				return err
			}

			resp, err := client.Get(cmd.Context(), parsePath(args[0]), nil)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp.Data, *query)
		},
	}
}

func newAPIPostCmd(query *string) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "POST request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			client, err := app.Client()
			if err != nil {
				return err
			}

			body, err := parseBody(data)
			if err != nil {
				return err
			}

			resp, err := client.Post(cmd.Context(), parsePath(args[0]), body)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp.Data, *query)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newAPIPutCmd(query *string) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "PUT request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			client, err := app.Client()
			if err != nil {
				return err
			}

			body, err := parseBody(data)
			if err != nil {
				return err
			}

			resp, err := client.Put(cmd.Context(), parsePath(args[0]), body)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp.Data, *query)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newAPIDeleteCmd(query *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "DELETE request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			client, err := app.Client()
			if err != nil {
				return err
			}

			resp, err := client.Delete(cmd.Context(), parsePath(args[0]))
			if err != nil {
				return err
			}

			// 204 No Content has no body to print or filter
			data := resp.Data
			if len(data) == 0 {
				data = []byte(`{"deleted": true}`)
			}
			return printResponse(cmd, data, *query)
		},
	}
}

// parsePath normalizes the API path argument. A full URL is reduced to its
// path; a bare path gets a leading slash.
func parsePath(input string) string {
	if after, ok := strings.CutPrefix(input, api.DefaultBaseURL); ok {
		input = after
	}
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}
	return input
}

func parseBody(data string) (any, error) {
	if data == "" {
		return nil, api.ErrConfig("--data is required")
	}
	var body any
	if err := json.Unmarshal([]byte(data), &body); err != nil {
		return nil, api.ErrConfig("invalid JSON in --data: " + err.Error())
	}
	return body, nil
}

// printResponse writes the response body to stdout, filtered through the
// jq expression when one is given.
func printResponse(cmd *cobra.Command, data []byte, query string) error {
	if query == "" {
		var buf any
		if err := json.Unmarshal(data, &buf); err != nil {
			// Non-JSON body, print as-is
			cmd.Println(string(data))
			return nil
		}
		out, err := json.MarshalIndent(buf, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return api.ErrConfig("invalid --query expression: " + err.Error())
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	iter := q.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("query failed: %w", err)
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
	}
	return nil
}
