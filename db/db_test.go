package db

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/progstudio/config"
	"github.com/jsphweid/progstudio/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	pages [][]map[string]*dynamodb.AttributeValue
	err   error
	table string
}

func (f *fakeDynamo) ScanPages(in *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool) error {
	f.table = *in.TableName
	if f.err != nil {
		return f.err
	}
	for i, items := range f.pages {
		if !fn(&dynamodb.ScanOutput{Items: items}, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func item(name string, degrees ...string) map[string]*dynamodb.AttributeValue {
	var l []*dynamodb.AttributeValue
	for _, d := range degrees {
		l = append(l, &dynamodb.AttributeValue{N: aws.String(d)})
	}
	return map[string]*dynamodb.AttributeValue{
		"PK":      {S: aws.String(name)},
		"Degrees": {L: l},
	}
}

func TestGetTemplatesAcrossPages(t *testing.T) {
	client := &fakeDynamo{pages: [][]map[string]*dynamodb.AttributeValue{
		{item("vi-IV-I-V", "5", "3", "0", "4")},
		{item("I-V-vi-IV", "0", "4", "5", "3")},
	}}

	lib, err := GetTemplates(client, "progression-templates")
	require.NoError(t, err)
	assert.Equal(t, "progression-templates", client.table)
	assert.Equal(t, theory.Library{
		{Name: "I-V-vi-IV", Degrees: []int{0, 4, 5, 3}},
		{Name: "vi-IV-I-V", Degrees: []int{5, 3, 0, 4}},
	}, lib)
}

func TestGetTemplatesRejectsBadItems(t *testing.T) {
	cases := map[string]map[string]*dynamodb.AttributeValue{
		"out of range": item("bad", "0", "9"),
		"not a number": item("bad", "x"),
		"no degrees":   {"PK": {S: aws.String("bad")}},
		"no pk":        {"Degrees": {L: nil}},
		"empty":        item("empty"),
	}
	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeDynamo{pages: [][]map[string]*dynamodb.AttributeValue{{it}}}
			_, err := GetTemplates(client, "t")
			assert.Error(t, err)
		})
	}
}

func TestGetTemplatesPassesErrors(t *testing.T) {
	boom := errors.New("throttled")
	_, err := GetTemplates(&fakeDynamo{err: boom}, "t")
	assert.ErrorIs(t, err, boom)
}

func TestLoadLibraryWithoutTable(t *testing.T) {
	lib, err := LoadLibrary(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, theory.Builtin(), lib)
}
