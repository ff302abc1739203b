package db

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/progstudio/config"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/theory"
)

// LoadLibrary returns the templates stored in DynamoDB when a table is
// configured, and the builtin templates otherwise.
func LoadLibrary(cfg *config.Config) (theory.Library, error) {
	if cfg.TemplatesTable == "" {
		return theory.Builtin(), nil
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	lib, err := GetTemplates(client, cfg.TemplatesTable)
	if err != nil {
		return nil, err
	}
	if len(lib) == 0 {
		logger.Warn("Template table is empty, using builtin templates", logger.Fields{"table": cfg.TemplatesTable})
		return theory.Builtin(), nil
	}
	return lib, nil
}

func newClient(cfg *config.Config) (*dynamodb.DynamoDB, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.DynamoDBRegion)}
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.DynamoDBEndpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return dynamodb.New(sess), nil
}

// GetTemplates scans every template in the table. Items look like
// {PK: "I-V-vi-IV", Degrees: [0, 4, 5, 3]}.
func GetTemplates(client dynamodbiface.DynamoDBAPI, table string) (theory.Library, error) {
	var items []map[string]*dynamodb.AttributeValue
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	err := client.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}
	return parseTemplates(items)
}

func parseTemplates(items []map[string]*dynamodb.AttributeValue) (theory.Library, error) {
	var lib theory.Library
	for _, item := range items {
		t, err := parseTemplate(item)
		if err != nil {
			return nil, err
		}
		lib = append(lib, t)
	}

	// scans come back in hash order
	sort.Slice(lib, func(i, j int) bool {
		return lib[i].Name < lib[j].Name
	})
	return lib, nil
}

func parseTemplate(item map[string]*dynamodb.AttributeValue) (theory.Template, error) {
	var t theory.Template
	pk, ok := item["PK"]
	if !ok || pk.S == nil {
		return t, fmt.Errorf("template item is missing PK")
	}
	t.Name = *pk.S

	degrees, ok := item["Degrees"]
	if !ok || degrees.L == nil {
		return t, fmt.Errorf("template %q is missing Degrees", t.Name)
	}
	for _, v := range degrees.L {
		if v.N == nil {
			return t, fmt.Errorf("template %q has a non-numeric degree", t.Name)
		}
		d, err := strconv.Atoi(*v.N)
		if err != nil {
			return t, fmt.Errorf("template %q: %w", t.Name, err)
		}
		t.Degrees = append(t.Degrees, d)
	}
	return t, t.Validate()
}
