package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/buraksezer/olric"
	log "github.com/sirupsen/logrus"
)

const RoadmapGeneratedTopicName = "roadmap-generated"

type GenerationEventListener interface {
	Start()
	PublishRoadmapGenerated(event view.RoadmapGeneratedEvent) error
	listen(message olric.DTopicMessage)
}

func NewGenerationEventListener(op client.OlricProvider, sessionStore SessionStore) GenerationEventListener {
	return &generationEventListenerImpl{
		op:           op,
		sessionStore: sessionStore,
	}
}

type generationEventListenerImpl struct {
	op                    client.OlricProvider
	sessionStore          SessionStore
	roadmapGeneratedTopic *olric.DTopic
	isReadyWg             sync.WaitGroup
}

func (g *generationEventListenerImpl) Start() {
	g.isReadyWg.Add(1)
	utils.SafeAsync(func() {
		g.initRoadmapGeneratedDTopic()
	})
}

func (g *generationEventListenerImpl) PublishRoadmapGenerated(event view.RoadmapGeneratedEvent) error {
	g.isReadyWg.Wait()
	if g.roadmapGeneratedTopic == nil {
		return fmt.Errorf("DTopic %s is not initialized", RoadmapGeneratedTopicName)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return g.roadmapGeneratedTopic.Publish(string(data))
}

func (g *generationEventListenerImpl) listen(message olric.DTopicMessage) {
	str, ok := message.Message.(string)
	if !ok {
		log.Warnf("GenerationEventListener.listen: unexpected event %+v, will not be processed", message.Message)
		return
	}

	var event view.RoadmapGeneratedEvent
	err := json.Unmarshal([]byte(str), &event)
	if err != nil {
		log.Errorf("GenerationEventListener.listen: error unmarshalling roadmap generated event: %v", err)
		return
	}

	err = g.sessionStore.SetLastRoadmap(context.Background(), event.UserId, event.RoadmapId)
	if err != nil {
		log.Errorf("GenerationEventListener.listen: failed to update session for event %+v: %v", event, err)
	}
}

func (g *generationEventListenerImpl) initRoadmapGeneratedDTopic() {
	defer g.isReadyWg.Done()

	topic, err := g.op.Get().NewDTopic(RoadmapGeneratedTopicName, 10000, olric.UnorderedDelivery)
	if err != nil {
		log.Errorf("Failed to create DTopic %s: %s", RoadmapGeneratedTopicName, err.Error())
		return
	}

	_, err = topic.AddListener(g.listen)
	if err != nil {
		log.Errorf("Failed to add listener to DTopic %s: %s", RoadmapGeneratedTopicName, err.Error())
		return
	}
	g.roadmapGeneratedTopic = topic
}
