package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	"fraud-vision-api/src/fraud"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"google.golang.org/api/option"
	aipb "google.golang.org/genproto/googleapis/cloud/aiplatform/v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Prediction request parameters for the deployed image classification model.
const (
	classifyConfidenceThreshold = 0.1
	classifyMaxPredictions      = 10
)

// VertexClassifier classifies images through a Vertex AI prediction endpoint.
type VertexClassifier struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexClassifier dials the regional Vertex AI prediction service for
// the configured project/location/endpoint triple.
func NewVertexClassifier(ctx context.Context, project, location, endpointID string) (*VertexClassifier, error) {
	apiEndpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
	client, err := aiplatform.NewPredictionClient(ctx, option.WithEndpoint(apiEndpoint))
	if err != nil {
		return nil, err
	}

	return &VertexClassifier{
		client:   client,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/endpoints/%s", project, location, endpointID),
	}, nil
}

// Classify submits the image to the prediction endpoint and normalizes the
// response into ordered label/confidence pairs.
func (c *VertexClassifier) Classify(ctx context.Context, content []byte) (*fraud.ClassificationResult, error) {
	instance, err := structpb.NewStruct(map[string]interface{}{
		"content": base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return nil, err
	}

	parameters, err := structpb.NewStruct(map[string]interface{}{
		"confidenceThreshold": classifyConfidenceThreshold,
		"maxPredictions":      classifyMaxPredictions,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Predict(ctx, &aipb.PredictRequest{
		Endpoint:   c.endpoint,
		Instances:  []*structpb.Value{structpb.NewStructValue(instance)},
		Parameters: structpb.NewStructValue(parameters),
	})
	if err != nil {
		return nil, err
	}

	result := &fraud.ClassificationResult{
		DeployedModelID:  resp.GetDeployedModelId(),
		ModelVersionID:   resp.GetModelVersionId(),
		ModelDisplayName: resp.GetModelDisplayName(),
		Predictions:      make([]fraud.Prediction, 0),
	}

	for _, pred := range resp.GetPredictions() {
		result.Predictions = append(result.Predictions, flattenPrediction(pred)...)
	}

	return result, nil
}

// Close releases the underlying gRPC connection.
func (c *VertexClassifier) Close() error {
	return c.client.Close()
}

// flattenPrediction unpacks one AutoML-style classification prediction, a
// struct of parallel displayNames/confidences/ids lists, into ordered pairs.
func flattenPrediction(pred *structpb.Value) []fraud.Prediction {
	fields := pred.GetStructValue().GetFields()

	names := fields["displayNames"].GetListValue().GetValues()
	confidences := fields["confidences"].GetListValue().GetValues()
	ids := fields["ids"].GetListValue().GetValues()

	out := make([]fraud.Prediction, 0, len(names))
	for i, name := range names {
		p := fraud.Prediction{Label: name.GetStringValue()}
		if i < len(confidences) {
			p.Confidence = confidences[i].GetNumberValue()
		}
		if i < len(ids) {
			p.ID = ids[i].GetStringValue()
		}
		out = append(out, p)
	}
	return out
}
