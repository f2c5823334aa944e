package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"

	"statesapi/application/commands"
	"statesapi/application/ports"
	"statesapi/application/queries"
	"statesapi/domain/core/entities"
	"statesapi/domain/events"
	"statesapi/domain/reference"
	"statesapi/pkg/errors"
	"statesapi/pkg/utils"

	"go.uber.org/zap"
)

// StateService implements every state endpoint: reads over the reference
// dataset merged with stored fun facts, and read-modify-write mutations of
// a single fact document.
type StateService struct {
	dataset   *reference.Dataset
	facts     ports.FactRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	intN      func(n int) int
}

// NewStateService creates a new state service
func NewStateService(
	dataset *reference.Dataset,
	facts ports.FactRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *StateService {
	return &StateService{
		dataset:   dataset,
		facts:     facts,
		publisher: publisher,
		logger:    logger,
		intN:      rand.IntN,
	}
}

// ListStates returns the (optionally filtered) states merged with their facts
func (s *StateService) ListStates(ctx context.Context, q queries.ListStatesQuery) ([]entities.MergedState, error) {
	records := s.dataset.All()
	if q.Filtered() {
		records = s.dataset.Contiguous(*q.Contiguous)
	}

	docs, err := s.facts.FindAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("find all fact documents", err)
	}

	byCode := make(map[string]*entities.FactDocument, len(docs))
	for _, doc := range docs {
		byCode[doc.StateCode().String()] = doc
	}

	merged := make([]entities.MergedState, 0, len(records))
	for _, record := range records {
		merged = append(merged, entities.Merge(record, byCode[record.Code]))
	}
	return merged, nil
}

// GetState returns one state merged with its facts
func (s *StateService) GetState(ctx context.Context, record entities.StateRecord) (entities.MergedState, error) {
	doc, err := s.loadDocument(ctx, record)
	if err != nil {
		return entities.MergedState{}, err
	}
	return entities.Merge(record, doc), nil
}

// RandomFunFact picks one of the state's facts uniformly at random
func (s *StateService) RandomFunFact(ctx context.Context, record entities.StateRecord) (FunFactView, error) {
	doc, err := s.loadDocument(ctx, record)
	if err != nil {
		return FunFactView{}, err
	}
	if doc == nil || doc.IsEmpty() {
		return FunFactView{}, noFactsError(record)
	}
	return FunFactView{FunFact: doc.At(s.intN(doc.Len()))}, nil
}

// Capital projects the state's capital
func (s *StateService) Capital(record entities.StateRecord) CapitalView {
	return CapitalView{State: record.Name, Capital: record.Capital}
}

// Nickname projects the state's nickname
func (s *StateService) Nickname(record entities.StateRecord) NicknameView {
	return NicknameView{State: record.Name, Nickname: record.Nickname}
}

// Population projects the state's population with thousands separators
func (s *StateService) Population(record entities.StateRecord) PopulationView {
	return PopulationView{State: record.Name, Population: utils.FormatPopulation(record.Population)}
}

// Admission projects the state's admission date
func (s *StateService) Admission(record entities.StateRecord) AdmissionView {
	return AdmissionView{State: record.Name, Admitted: record.AdmissionDate}
}

// AppendFunFacts appends facts to the state's list, creating the document
// on first use
func (s *StateService) AppendFunFacts(ctx context.Context, record entities.StateRecord, cmd commands.AppendFunFactsCommand) (entities.MergedState, error) {
	if err := cmd.Validate(); err != nil {
		return entities.MergedState{}, err
	}

	doc, err := s.loadDocument(ctx, record)
	if err != nil {
		return entities.MergedState{}, err
	}

	if doc == nil {
		doc, err = s.createDocument(ctx, record, cmd.Facts)
	} else {
		err = s.appendAndSave(ctx, doc, cmd.Facts)
	}
	if err != nil {
		return entities.MergedState{}, err
	}

	s.logger.Info("Fun facts appended",
		zap.String("state", record.Code),
		zap.Int("added", len(cmd.Facts)),
		zap.Int("total", doc.Len()),
	)
	s.publish(ctx, events.NewFunFactsAppended(doc.StateCode(), cmd.Facts, doc.Len(), doc.UpdatedAt()))

	return entities.Merge(record, doc), nil
}

// UpdateFunFact overwrites the fact at a 1-based index
func (s *StateService) UpdateFunFact(ctx context.Context, record entities.StateRecord, cmd commands.UpdateFunFactCommand) (entities.MergedState, error) {
	if err := cmd.Validate(); err != nil {
		return entities.MergedState{}, err
	}

	doc, err := s.loadNonEmpty(ctx, record)
	if err != nil {
		return entities.MergedState{}, err
	}

	previous, err := doc.Replace(*cmd.Index, *cmd.FunFact)
	if err != nil {
		return entities.MergedState{}, indexError(record, err)
	}
	if err := s.facts.Save(ctx, doc); err != nil {
		return entities.MergedState{}, errors.NewDatabaseError("save fact document", err)
	}

	s.logger.Info("Fun fact updated",
		zap.String("state", record.Code),
		zap.Int("index", *cmd.Index),
	)
	s.publish(ctx, events.NewFunFactUpdated(doc.StateCode(), *cmd.Index, previous, *cmd.FunFact, doc.UpdatedAt()))

	return entities.Merge(record, doc), nil
}

// DeleteFunFact removes the fact at a 1-based index; later facts shift left
func (s *StateService) DeleteFunFact(ctx context.Context, record entities.StateRecord, cmd commands.DeleteFunFactCommand) (entities.MergedState, error) {
	if err := cmd.Validate(); err != nil {
		return entities.MergedState{}, err
	}

	doc, err := s.loadNonEmpty(ctx, record)
	if err != nil {
		return entities.MergedState{}, err
	}

	removed, err := doc.Remove(*cmd.Index)
	if err != nil {
		return entities.MergedState{}, indexError(record, err)
	}
	if err := s.facts.Save(ctx, doc); err != nil {
		return entities.MergedState{}, errors.NewDatabaseError("save fact document", err)
	}

	s.logger.Info("Fun fact removed",
		zap.String("state", record.Code),
		zap.Int("index", *cmd.Index),
		zap.Int("remaining", doc.Len()),
	)
	s.publish(ctx, events.NewFunFactRemoved(doc.StateCode(), *cmd.Index, removed, doc.Len(), doc.UpdatedAt()))

	return entities.Merge(record, doc), nil
}

// createDocument stores a new document. If another request created it
// first, the facts are appended to that document instead.
func (s *StateService) createDocument(ctx context.Context, record entities.StateRecord, facts []string) (*entities.FactDocument, error) {
	doc := entities.NewFactDocument(record.StateCode(), facts)
	err := s.facts.Create(ctx, doc)
	if err == nil {
		return doc, nil
	}
	if !stderrors.Is(err, ports.ErrDocumentExists) {
		return nil, errors.NewDatabaseError("create fact document", err)
	}

	existing, err := s.loadDocument(ctx, record)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewDatabaseError("create fact document", ports.ErrDocumentExists)
	}
	s.logger.Debug("Fact document created concurrently; appending",
		zap.String("state", record.Code),
	)
	if err := s.appendAndSave(ctx, existing, facts); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *StateService) appendAndSave(ctx context.Context, doc *entities.FactDocument, facts []string) error {
	doc.Append(facts...)
	if err := s.facts.Save(ctx, doc); err != nil {
		return errors.NewDatabaseError("save fact document", err)
	}
	return nil
}

// loadDocument returns the state's document, or nil when none is stored
func (s *StateService) loadDocument(ctx context.Context, record entities.StateRecord) (*entities.FactDocument, error) {
	doc, err := s.facts.FindByCode(ctx, record.StateCode())
	if stderrors.Is(err, ports.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find fact document", err)
	}
	return doc, nil
}

func (s *StateService) loadNonEmpty(ctx context.Context, record entities.StateRecord) (*entities.FactDocument, error) {
	doc, err := s.loadDocument(ctx, record)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.IsEmpty() {
		return nil, noFactsError(record)
	}
	return doc, nil
}

// publish emits an event after a successful save; failures are only logged
func (s *StateService) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.String("state", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

func noFactsError(record entities.StateRecord) error {
	return errors.NewNotFoundError(fmt.Sprintf("No Fun Facts found for %s", record.Name))
}

func indexError(record entities.StateRecord, cause error) error {
	return errors.NewNotFoundError(fmt.Sprintf("No Fun Fact found at that index for %s", record.Name)).WithCause(cause)
}
