package raft

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileProvider persists the recovery journal and snapshot as JSON files in a
// local directory, using the same atomic-write-via-tempfile-and-rename
// helper the teacher repo uses for its own JSON-backed storage.
type FileProvider struct {
	dir                string
	recoveryApplicable bool
}

// NewFileProvider returns a PersistenceProvider rooted at dir.
// recoveryApplicable mirrors a datastore's own persistence-enabled flag
// (spec.md §4.1.1): when false, LoadRecoveryEvents still reads and returns
// whatever is on disk — it is always replayed — but the driver treats
// anything it recovers as stale and scrubs it at RecoveryCompleted instead
// of keeping it.
func NewFileProvider(dir string, recoveryApplicable bool) *FileProvider {
	return &FileProvider{dir: dir, recoveryApplicable: recoveryApplicable}
}

func (p *FileProvider) IsRecoveryApplicable() bool { return p.recoveryApplicable }

func (p *FileProvider) journalPath() string  { return filepath.Join(p.dir, "journal.json") }
func (p *FileProvider) snapshotPath() string { return filepath.Join(p.dir, "snapshot.json") }

// LoadRecoveryEvents reads the on-disk snapshot (if any) followed by the
// journal, in persisted order, and decodes them back into RecoveryEvent.
func (p *FileProvider) LoadRecoveryEvents() ([]RecoveryEvent, error) {
	var events []RecoveryEvent

	snap, err := p.loadSnapshotRecord()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		s, err := snap.toSnapshot()
		if err != nil {
			return nil, err
		}
		events = append(events, SnapshotOfferEvent{Snapshot: s})
	}

	journal, err := p.loadJournal()
	if err != nil {
		return nil, err
	}
	for _, rec := range journal {
		ev, err := rec.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// SaveSnapshot persists snap. Discarding the journal entries it supersedes
// is left to an explicit DeleteMessages call, matching
// PersistenceProvider's split contract.
func (p *FileProvider) SaveSnapshot(_ context.Context, snap Snapshot) error {
	rec, err := snapshotToRecord(snap)
	if err != nil {
		return err
	}
	return writeJSONAtomically(p.snapshotPath(), rec)
}

// DeleteMessages drops journal records with sequence number <= sequenceNr.
func (p *FileProvider) DeleteMessages(_ context.Context, sequenceNr uint64) error {
	journal, err := p.loadJournal()
	if err != nil {
		return err
	}
	kept := journal[:0:0]
	for _, rec := range journal {
		if rec.Seq > sequenceNr {
			kept = append(kept, rec)
		}
	}
	return writeJSONAtomically(p.journalPath(), kept)
}

// LastSequenceNumber returns the highest sequence number currently on disk.
func (p *FileProvider) LastSequenceNumber() uint64 {
	journal, err := p.loadJournal()
	if err != nil || len(journal) == 0 {
		return 0
	}
	return journal[len(journal)-1].Seq
}

// AppendJournalEvent durably appends a single journal record, for use by the
// (out-of-scope) runtime that persists entries as they are replicated. It is
// exposed here so tests and cmd/node can seed or extend a journal without a
// second storage abstraction.
func (p *FileProvider) AppendJournalEvent(e RecoveryEvent) (uint64, error) {
	journal, err := p.loadJournal()
	if err != nil {
		return 0, err
	}
	seq := p.LastSequenceNumber() + 1
	rec, err := eventToRecord(seq, e)
	if err != nil {
		return 0, err
	}
	journal = append(journal, rec)
	if err := writeJSONAtomically(p.journalPath(), journal); err != nil {
		return 0, err
	}
	return seq, nil
}

func (p *FileProvider) loadJournal() ([]journalRecord, error) {
	data, err := os.ReadFile(p.journalPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var journal []journalRecord
	if err := json.Unmarshal(data, &journal); err != nil {
		return nil, err
	}
	return journal, nil
}

func (p *FileProvider) loadSnapshotRecord() (*snapshotRecord, error) {
	data, err := os.ReadFile(p.snapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- on-disk wire formats ---
//
// Payload and SnapshotState are interfaces, so they need a tagged-union
// encoding distinct from the in-memory types; journalRecord/payloadRecord/
// stateRecord play that role, analogous to the teacher's storedLog wrapper
// around []LogEntry.

type journalRecord struct {
	Seq  uint64 `json:"seq"`
	Kind string `json:"kind"`

	Entry     *entryRecord  `json:"entry,omitempty"`
	ToIndex   *uint64       `json:"to_index,omitempty"`
	FromIndex *uint64       `json:"from_index,omitempty"`
	Config    *configRecord `json:"config,omitempty"`
	TermInfo  *TermInfo     `json:"term_info,omitempty"`
}

type entryRecord struct {
	Index   uint64        `json:"index"`
	Term    uint64        `json:"term"`
	Payload payloadRecord `json:"payload"`
	Size    uint64        `json:"size"`
}

type payloadRecord struct {
	Kind       string   `json:"kind"`
	Data       []byte   `json:"data,omitempty"`
	Persistent bool     `json:"persistent,omitempty"`
	Migrated   bool     `json:"migrated,omitempty"`
	Voting     []string `json:"voting,omitempty"`
	NonVoting  []string `json:"non_voting,omitempty"`
}

type configRecord struct {
	Voting    []string `json:"voting"`
	NonVoting []string `json:"non_voting"`
	Migrated  bool     `json:"migrated,omitempty"`
}

type stateRecord struct {
	Empty    bool   `json:"empty"`
	Data     []byte `json:"data,omitempty"`
	Migrated bool   `json:"migrated,omitempty"`
}

type snapshotRecord struct {
	State            stateRecord   `json:"state"`
	UnappliedEntries []entryRecord `json:"unapplied_entries,omitempty"`
	LastIndex        uint64        `json:"last_index"`
	LastTerm         uint64        `json:"last_term"`
	LastAppliedIndex uint64        `json:"last_applied_index"`
	LastAppliedTerm  uint64        `json:"last_applied_term"`
	TermInfo         TermInfo      `json:"term_info"`
	ServerConfig     *configRecord `json:"server_config,omitempty"`
	ElectionVotes    []byte        `json:"election_votes,omitempty"`
}

const (
	payloadKindApplicationData = "application_data"
	payloadKindServerConfig    = "server_configuration"
	payloadKindNoOp            = "no_op"

	journalKindEntry            = "entry"
	journalKindApplyJournal     = "apply_journal"
	journalKindDeleteEntries    = "delete_entries"
	journalKindServerConfig     = "server_configuration"
	journalKindUpdateElectTerm  = "update_election_term"
	journalKindRecoveryComplete = "recovery_completed"
)

func toNodeIDs(ss []string) []NodeID {
	if len(ss) == 0 {
		return nil
	}
	out := make([]NodeID, len(ss))
	for i, s := range ss {
		out[i] = NodeID(s)
	}
	return out
}

func fromNodeIDs(ns []NodeID) []string {
	if len(ns) == 0 {
		return nil
	}
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

func configToRecord(cfg ServerConfiguration) configRecord {
	return configRecord{
		Voting:    fromNodeIDs(cfg.Voting),
		NonVoting: fromNodeIDs(cfg.NonVoting),
		Migrated:  cfg.Migrated,
	}
}

func (c configRecord) toConfig() ServerConfiguration {
	return ServerConfiguration{
		Voting:    toNodeIDs(c.Voting),
		NonVoting: toNodeIDs(c.NonVoting),
		Migrated:  c.Migrated,
	}
}

func payloadToRecord(p Payload) (payloadRecord, error) {
	switch v := p.(type) {
	case ApplicationData:
		return payloadRecord{Kind: payloadKindApplicationData, Data: v.Data, Persistent: v.Persistent, Migrated: v.Migrated}, nil
	case ServerConfiguration:
		return payloadRecord{Kind: payloadKindServerConfig, Voting: fromNodeIDs(v.Voting), NonVoting: fromNodeIDs(v.NonVoting), Migrated: v.Migrated}, nil
	case NoOp:
		return payloadRecord{Kind: payloadKindNoOp, Migrated: v.Migrated}, nil
	default:
		return payloadRecord{}, errors.New("raft: unknown payload type for persistence")
	}
}

func (r payloadRecord) toPayload() (Payload, error) {
	switch r.Kind {
	case payloadKindApplicationData:
		return ApplicationData{Data: r.Data, Persistent: r.Persistent, Migrated: r.Migrated}, nil
	case payloadKindServerConfig:
		return ServerConfiguration{Voting: toNodeIDs(r.Voting), NonVoting: toNodeIDs(r.NonVoting), Migrated: r.Migrated}, nil
	case payloadKindNoOp:
		return NoOp{Migrated: r.Migrated}, nil
	default:
		return nil, errors.New("raft: unknown payload kind in journal: " + r.Kind)
	}
}

func entryToRecord(e Entry) (entryRecord, error) {
	pr, err := payloadToRecord(e.Payload)
	if err != nil {
		return entryRecord{}, err
	}
	return entryRecord{Index: e.Index, Term: e.Term, Payload: pr, Size: e.Size}, nil
}

func (r entryRecord) toEntry() (Entry, error) {
	p, err := r.Payload.toPayload()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Index: r.Index, Term: r.Term, Payload: p, Size: r.Size}, nil
}

func stateToRecord(s SnapshotState) (stateRecord, error) {
	switch v := s.(type) {
	case EmptyState:
		return stateRecord{Empty: true}, nil
	case OpaqueState:
		return stateRecord{Empty: false, Data: v.Data, Migrated: v.Migrated}, nil
	default:
		return stateRecord{}, errors.New("raft: unknown snapshot state type for persistence")
	}
}

func (r stateRecord) toState() SnapshotState {
	if r.Empty {
		return EmptyState{}
	}
	return OpaqueState{Data: r.Data, Migrated: r.Migrated}
}

func snapshotToRecord(s Snapshot) (snapshotRecord, error) {
	stateRec, err := stateToRecord(s.State)
	if err != nil {
		return snapshotRecord{}, err
	}
	var entries []entryRecord
	for _, e := range s.UnappliedEntries {
		er, err := entryToRecord(e)
		if err != nil {
			return snapshotRecord{}, err
		}
		entries = append(entries, er)
	}
	var cfg *configRecord
	if s.ServerConfig != nil {
		c := configToRecord(*s.ServerConfig)
		cfg = &c
	}
	return snapshotRecord{
		State:            stateRec,
		UnappliedEntries: entries,
		LastIndex:        s.LastIndex,
		LastTerm:         s.LastTerm,
		LastAppliedIndex: s.LastAppliedIndex,
		LastAppliedTerm:  s.LastAppliedTerm,
		TermInfo:         s.TermInfo,
		ServerConfig:     cfg,
		ElectionVotes:    s.ElectionVotes,
	}, nil
}

func (r snapshotRecord) toSnapshot() (Snapshot, error) {
	var entries []Entry
	for _, er := range r.UnappliedEntries {
		e, err := er.toEntry()
		if err != nil {
			return Snapshot{}, err
		}
		entries = append(entries, e)
	}
	var cfg *ServerConfiguration
	if r.ServerConfig != nil {
		c := r.ServerConfig.toConfig()
		cfg = &c
	}
	return Snapshot{
		State:            r.State.toState(),
		UnappliedEntries: entries,
		LastIndex:        r.LastIndex,
		LastTerm:         r.LastTerm,
		LastAppliedIndex: r.LastAppliedIndex,
		LastAppliedTerm:  r.LastAppliedTerm,
		TermInfo:         r.TermInfo,
		ServerConfig:     cfg,
		ElectionVotes:    r.ElectionVotes,
	}, nil
}

func eventToRecord(seq uint64, e RecoveryEvent) (journalRecord, error) {
	switch v := e.(type) {
	case ReplicatedLogEntryEvent:
		er, err := entryToRecord(v.Entry)
		if err != nil {
			return journalRecord{}, err
		}
		return journalRecord{Seq: seq, Kind: journalKindEntry, Entry: &er}, nil
	case ApplyJournalEntriesEvent:
		to := v.ToIndex
		return journalRecord{Seq: seq, Kind: journalKindApplyJournal, ToIndex: &to}, nil
	case DeleteEntriesEvent:
		from := v.FromIndex
		return journalRecord{Seq: seq, Kind: journalKindDeleteEntries, FromIndex: &from}, nil
	case ServerConfigurationEvent:
		c := configToRecord(v.Config)
		return journalRecord{Seq: seq, Kind: journalKindServerConfig, Config: &c}, nil
	case UpdateElectionTermEvent:
		ti := v.TermInfo
		return journalRecord{Seq: seq, Kind: journalKindUpdateElectTerm, TermInfo: &ti}, nil
	case RecoveryCompletedEvent:
		return journalRecord{Seq: seq, Kind: journalKindRecoveryComplete}, nil
	default:
		return journalRecord{}, errors.New("raft: unknown recovery event type for persistence")
	}
}

func (r journalRecord) toEvent() (RecoveryEvent, error) {
	switch r.Kind {
	case journalKindEntry:
		if r.Entry == nil {
			return nil, errors.New("raft: journal entry record missing entry field")
		}
		e, err := r.Entry.toEntry()
		if err != nil {
			return nil, err
		}
		return ReplicatedLogEntryEvent{Entry: e}, nil
	case journalKindApplyJournal:
		if r.ToIndex == nil {
			return nil, errors.New("raft: journal apply_journal record missing to_index field")
		}
		return ApplyJournalEntriesEvent{ToIndex: *r.ToIndex}, nil
	case journalKindDeleteEntries:
		if r.FromIndex == nil {
			return nil, errors.New("raft: journal delete_entries record missing from_index field")
		}
		return DeleteEntriesEvent{FromIndex: *r.FromIndex}, nil
	case journalKindServerConfig:
		if r.Config == nil {
			return nil, errors.New("raft: journal server_configuration record missing config field")
		}
		return ServerConfigurationEvent{Config: r.Config.toConfig()}, nil
	case journalKindUpdateElectTerm:
		if r.TermInfo == nil {
			return nil, errors.New("raft: journal update_election_term record missing term_info field")
		}
		return UpdateElectionTermEvent{TermInfo: *r.TermInfo}, nil
	case journalKindRecoveryComplete:
		return RecoveryCompletedEvent{}, nil
	default:
		return UnknownEvent{Kind: r.Kind}, nil
	}
}

func writeJSONAtomically(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	//nolint:gosec // tmpName and path are derived from internal storage paths, not user input.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	// Sync the parent directory so the rename itself is durable.
	//nolint:gosec // dir is derived from the configured storage directory under our control.
	dirFile, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = dirFile.Close() }()

	return dirFile.Sync()
}
