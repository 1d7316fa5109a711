package stash

const findPerformersQuery = `query FindPerformers($filter: FindFilterType, $performer_filter: PerformerFilterType) {
  findPerformers(filter: $filter, performer_filter: $performer_filter) {
    count
    performers {
      id
      name
      alias_list
    }
  }
}`

const performerCreateMutation = `mutation PerformerCreate($input: PerformerCreateInput!) {
  performerCreate(input: $input) {
    id
    name
  }
}`

const scrapeSinglePerformerQuery = `query ScrapeSinglePerformer($source: ScraperSourceInput!, $input: ScrapeSinglePerformerInput!) {
  scrapeSinglePerformer(source: $source, input: $input) {
    stored_id
    name
    disambiguation
    gender
    urls
    birthdate
    death_date
    ethnicity
    country
    eye_color
    hair_color
    height
    weight
    measurements
    fake_tits
    penis_length
    circumcised
    career_length
    tattoos
    piercings
    aliases
    images
    details
    remote_site_id
  }
}`

const findScenesQuery = `query FindScenes($filter: FindFilterType, $scene_filter: SceneFilterType) {
  findScenes(filter: $filter, scene_filter: $scene_filter) {
    scenes {
      id
      performers { id }
    }
  }
}`

const findGalleriesQuery = `query FindGalleries($filter: FindFilterType, $gallery_filter: GalleryFilterType) {
  findGalleries(filter: $filter, gallery_filter: $gallery_filter) {
    count
    galleries {
      id
      folder { path }
      performers { id }
    }
  }
}`

const findImagesQuery = `query FindImages($filter: FindFilterType, $image_filter: ImageFilterType) {
  findImages(filter: $filter, image_filter: $image_filter) {
    images {
      id
      performers { id }
    }
  }
}`

const bulkSceneUpdateMutation = `mutation BulkSceneUpdate($input: BulkSceneUpdateInput!) {
  bulkSceneUpdate(input: $input) { id }
}`

const bulkImageUpdateMutation = `mutation BulkImageUpdate($input: BulkImageUpdateInput!) {
  bulkImageUpdate(input: $input) { id }
}`

const bulkGalleryUpdateMutation = `mutation BulkGalleryUpdate($input: BulkGalleryUpdateInput!) {
  bulkGalleryUpdate(input: $input) { id }
}`
