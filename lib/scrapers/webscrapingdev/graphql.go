package webscrapingdev

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type graphqlError struct {
	Message string `json:"message"`
}

func serializeGraphqlQueryObject(name, query string, variables any) (string, error) {
	escapedName, err := json.Marshal(name)
	if err != nil {
		return "", err
	}
	escapedQuery, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	jsonVariables, err := json.Marshal(variables)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		`{"operationName": %s, "query": %s, "variables": %s}`,
		escapedName,
		escapedQuery,
		jsonVariables,
	), nil
}

func deserializeGraphqlResponseObject(response []byte, out any) error {
	var result struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}

	err := json.Unmarshal(response, &result)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("graphql: %s", result.Errors[0].Message)
	}

	return json.Unmarshal(result.Data, out)
}

func graphqlQuery(
	ctx context.Context,
	client *resty.Client,
	name,
	query string,
	variables any,
	output any,
) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", name))
	defer span.End()

	span.SetAttributes(attribute.KeyValue{
		Key:   "name",
		Value: attribute.StringValue(name),
	})
	serialized, err := json.Marshal(variables)
	if err == nil {
		span.SetAttributes(attribute.KeyValue{
			Key:   "variables",
			Value: attribute.StringValue(string(serialized)),
		})
	}

	body, err := serializeGraphqlQueryObject(name, query, variables)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize json query")
		return err
	}

	res, err := client.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post("/api/graphql")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return err
	}

	err = deserializeGraphqlResponseObject(res.Body(), output)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return err
	}

	return nil
}
