package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	textracttypes "github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractClient implements Client on AWS Textract asynchronous text
// detection. The handle passed to Start is the object-store storage key; the
// client owns the bucket/prefix mapping.
type TextractClient struct {
	client *textract.Client
	bucket string
	prefix string
}

// NewTextractClient constructs a Textract-backed OCR client.
func NewTextractClient(ctx context.Context, region, bucket, prefix string) (*TextractClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("textract s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &TextractClient{
		client: textract.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}, nil
}

// Start submits the stored object for text detection and returns the job id.
func (t *TextractClient) Start(ctx context.Context, handle string) (string, error) {
	out, err := t.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &textracttypes.DocumentLocation{
			S3Object: &textracttypes.S3Object{
				Bucket: aws.String(t.bucket),
				Name:   aws.String(t.objectKey(handle)),
			},
		},
	})
	if err != nil {
		return "", mapSubmissionError(err)
	}
	return aws.ToString(out.JobId), nil
}

// Poll fetches one page of job status and results.
func (t *TextractClient) Poll(ctx context.Context, jobID, nextToken string) (PollResult, error) {
	input := &textract.GetDocumentTextDetectionInput{JobId: aws.String(jobID)}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := t.client.GetDocumentTextDetection(ctx, input)
	if err != nil {
		return PollResult{}, fmt.Errorf("textract get job=%s: %w", jobID, err)
	}

	res := PollResult{
		Status:    mapJobStatus(out.JobStatus),
		NextToken: aws.ToString(out.NextToken),
	}
	for _, block := range out.Blocks {
		res.Fragments = append(res.Fragments, Fragment{
			Kind: mapBlockKind(block.BlockType),
			Text: aws.ToString(block.Text),
		})
	}
	return res, nil
}

func (t *TextractClient) objectKey(handle string) string {
	cleanKey := strings.TrimLeft(handle, "/")
	if t.prefix == "" {
		return cleanKey
	}
	return t.prefix + "/" + cleanKey
}

func mapJobStatus(status textracttypes.JobStatus) JobStatus {
	switch status {
	case textracttypes.JobStatusInProgress:
		return StatusInProgress
	case textracttypes.JobStatusSucceeded, textracttypes.JobStatusPartialSuccess:
		return StatusSucceeded
	default:
		return StatusFailed
	}
}

func mapBlockKind(blockType textracttypes.BlockType) FragmentKind {
	switch blockType {
	case textracttypes.BlockTypeLine:
		return FragmentLine
	case textracttypes.BlockTypeWord:
		return FragmentWord
	default:
		return FragmentLayout
	}
}

func mapSubmissionError(err error) error {
	var (
		throughput  *textracttypes.ProvisionedThroughputExceededException
		limit       *textracttypes.LimitExceededException
		tooLarge    *textracttypes.DocumentTooLargeException
		invalidS3   *textracttypes.InvalidS3ObjectException
		unsupported *textracttypes.UnsupportedDocumentException
		bad         *textracttypes.BadDocumentException
	)
	switch {
	case errors.As(err, &throughput), errors.As(err, &limit):
		return &SubmissionError{Kind: SubmissionThrottled, Err: err}
	case errors.As(err, &tooLarge):
		return &SubmissionError{Kind: SubmissionDocumentTooLarge, Err: err}
	case errors.As(err, &invalidS3):
		return &SubmissionError{Kind: SubmissionInvalidReference, Err: err}
	case errors.As(err, &unsupported), errors.As(err, &bad):
		return &SubmissionError{Kind: SubmissionUnsupported, Err: err}
	default:
		return &SubmissionError{Kind: SubmissionRejected, Err: err}
	}
}

var _ Client = (*TextractClient)(nil)
